// Generic key/value settings store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// installIDKey holds the per-installation identifier generated on first
// run.
const installIDKey = "install_id"

// GetSetting returns the value for key. The second return is false when
// the key is unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a key, refreshing updated_at.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO settings (key, value, updated_at)
        VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
        ON CONFLICT(key) DO UPDATE SET
          value = excluded.value,
          updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, busyErr(err))
	}
	return nil
}

// EnsureInstallID returns the installation id, generating and storing a
// UUID v7 on first call.
func (s *Store) EnsureInstallID() (string, error) {
	id, ok, err := s.GetSetting(installIDKey)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}

	id = generateUUID()
	if err := s.SetSetting(installIDKey, id); err != nil {
		return "", err
	}
	return id, nil
}

// generateUUID generates a UUID v7, falling back to v4 if v7 generation
// fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
