// Package sqlite implements the Waybill data layer over an embedded
// SQLite file: connection configuration, idempotent schema lifecycle,
// the order ledger with its company directory, the opened-orders
// working set, the analytics engine, and the settings/theme stores.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// DBFileName is the ledger file created inside the data directory.
const DBFileName = "waybill.db"

// tsLayout is the persisted timestamp format: ISO-8601 UTC with
// millisecond precision, matching strftime('%Y-%m-%dT%H:%M:%fZ','now').
const tsLayout = "2006-01-02T15:04:05.000Z"

// dateLayout is the persisted calendar-date format.
const dateLayout = "2006-01-02"

// Store owns the SQLite connection for one ledger file. A Store is a
// single-writer handle: the desktop model has one user and at most a
// background poll overlapping a user action, which the WAL journal and
// busy timeout absorb.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// querier is satisfied by both *sql.DB and *sql.Tx so the company
// resolution helpers can run inside or outside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Open opens or creates the ledger file at path and applies the
// durability configuration: WAL journaling, NORMAL synchronous mode, a
// 5 s busy timeout, and foreign-key enforcement. If WAL does not take
// effect (some filesystems bounce it) a warning is logged and the open
// still succeeds. A file that cannot be opened or created wraps
// types.ErrStorageUnavailable.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrStorageUnavailable, path, err)
	}
	// One connection: the savepoint-based schema manager and the
	// positional renumbering both assume statements share a session.
	db.SetMaxOpenConns(1)

	// journal_mode returns a row, so it goes through QueryRow.
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: configuring %s: %v", types.ErrStorageUnavailable, path, err)
	}
	for _, pragma := range []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: configuring %s: %v", types.ErrStorageUnavailable, path, err)
		}
	}

	// Re-read the effective mode; a bounced WAL request is a diagnostic,
	// not a failure.
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: reading journal mode of %s: %v", types.ErrStorageUnavailable, path, err)
	}
	if !strings.EqualFold(mode, "wal") {
		logger.Warn("journal mode did not take effect; WAL may be unsupported for this file",
			zap.String("path", path),
			zap.String("mode", mode))
	}

	logger.Debug("store opened", zap.String("path", path))
	return &Store{db: db, log: logger}, nil
}

// Close releases the connection. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// IsBusy reports whether err came from lock contention and is worth
// retrying after a backoff.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, types.ErrBusy) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// busyErr marks a lock-timeout driver error with types.ErrBusy so
// callers can match it with errors.Is. Other errors pass through
// unchanged.
func busyErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") {
		return fmt.Errorf("%w: %v", types.ErrBusy, err)
	}
	return err
}

// begin starts a write transaction, classifying lock timeouts as
// types.ErrBusy.
func (s *Store) begin() (*sql.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, busyErr(err)
	}
	return tx, nil
}

// isConstraint reports whether err is a SQLite constraint failure.
func isConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_CONSTRAINT") || strings.Contains(msg, "constraint failed")
}
