// Package sqlite provides the public entry point for opening a Waybill
// store while keeping implementation details internal.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/waybill/internal/sqlite"
	"github.com/mesh-intelligence/waybill/pkg/types"
)

// Store is the SQLite-backed ledger handle.
type Store = sqlite.Store

// DBFileName is the ledger file created inside the data directory.
const DBFileName = sqlite.DBFileName

// Open validates cfg, creates the data directory if needed, then opens
// or creates the ledger file inside it and brings its schema up to
// date.
//
// Example:
//
//	cfg := types.Config{DataDir: dataDir}
//	store, err := sqlite.Open(cfg, logger)
//	if err != nil { ... }
//	defer store.Close()
func Open(cfg types.Config, logger *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %v", types.ErrStorageUnavailable, err)
	}

	store, err := sqlite.Open(filepath.Join(dataDir, DBFileName), logger)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// IsBusy reports whether err came from lock contention and is worth
// retrying after a backoff.
func IsBusy(err error) bool {
	return sqlite.IsBusy(err)
}
