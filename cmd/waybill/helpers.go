// Shared helpers for waybill CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/waybill/internal/logging"
	"github.com/mesh-intelligence/waybill/pkg/sqlite"
	"github.com/mesh-intelligence/waybill/pkg/types"
)

// openStore resolves the data directory, opens the ledger inside it,
// and brings the schema up to date. The caller must defer
// store.Close(). Errors are already suitable for CLI output.
func openStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:  dataDir,
		LogLevel: configLogLevel,
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		// The store works without a logger; fall back to silent.
		logger = zap.NewNop()
	}

	store, err := sqlite.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// exitOnSysError prints err and exits with the system error code,
// translating lock contention into a retry hint first. A nil err is a
// no-op.
func exitOnSysError(prefix string, err error) {
	if err == nil {
		return
	}
	if sqlite.IsBusy(err) {
		fmt.Fprintf(os.Stderr, "%s: the ledger is busy, retry in a moment\n", prefix)
		os.Exit(exitSysError)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	os.Exit(exitSysError)
}

// isNotFound reports whether the error wraps ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
