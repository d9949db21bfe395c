// Company directory: a canonical, case-insensitive set of delivery
// company names. Orders carry both the directory id and the canonical
// display text; every write path here keeps the pair in sync inside the
// writing transaction.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// GetOrCreateCompany resolves a free-text company name to its directory
// row, inserting one on first sight. The returned name is the stored
// canonical casing, which may differ from the input. Blank or
// whitespace-only input returns types.ErrInvalidCompanyName.
func (s *Store) GetOrCreateCompany(name string) (int64, string, error) {
	return getOrCreateCompany(s.db, name)
}

// getOrCreateCompany is the transaction-aware form used by order writes.
func getOrCreateCompany(q querier, name string) (int64, string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, "", types.ErrInvalidCompanyName
	}

	// INSERT OR IGNORE is a no-op when a case-insensitive match exists,
	// so the first-seen casing wins.
	if _, err := q.Exec(
		`INSERT OR IGNORE INTO delivery_companies(name) VALUES (?)`,
		trimmed,
	); err != nil {
		return 0, "", fmt.Errorf("inserting company %q: %w", trimmed, err)
	}

	var id int64
	var canonical string
	err := q.QueryRow(
		`SELECT id, name FROM delivery_companies WHERE name = ? COLLATE NOCASE`,
		trimmed,
	).Scan(&id, &canonical)
	if err != nil {
		return 0, "", fmt.Errorf("resolving company %q: %w", trimmed, err)
	}
	return id, canonical, nil
}

// ListCompanies returns the directory, active entries first, then by
// name.
func (s *Store) ListCompanies() ([]types.Company, error) {
	rows, err := s.db.Query(`
        SELECT id, name, active
        FROM delivery_companies
        ORDER BY active DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	companies := []types.Company{}
	for rows.Next() {
		var c types.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return companies, nil
}

// AddCompany creates a directory entry, or returns the id of the
// existing case-insensitive match.
func (s *Store) AddCompany(name string) (int64, error) {
	id, _, err := s.GetOrCreateCompany(name)
	return id, err
}

// SetCompanyActive flips the active flag. Missing id returns
// types.ErrNotFound.
func (s *Store) SetCompanyActive(id int64, active bool) error {
	res, err := s.db.Exec(
		`UPDATE delivery_companies SET active = ? WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("updating company %d: %w", id, busyErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating company %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// RenameCompany renames a directory entry and propagates the new name
// to every order referencing it, in one transaction, so the denormalized
// order text never drifts from the directory. Renaming onto another
// company's name (case-insensitively) returns types.ErrConstraint.
func (s *Store) RenameCompany(id int64, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return types.ErrInvalidCompanyName
	}

	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning rename: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM delivery_companies WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking company %d: %w", id, err)
	}

	if _, err := tx.Exec(
		`UPDATE delivery_companies SET name = ? WHERE id = ?`,
		trimmed, id,
	); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: renaming company %d to %q: %v", types.ErrConstraint, id, trimmed, err)
		}
		return fmt.Errorf("renaming company %d: %w", id, err)
	}

	if _, err := tx.Exec(
		`UPDATE orders SET delivery_company = ? WHERE delivery_company_id = ?`,
		trimmed, id,
	); err != nil {
		return fmt.Errorf("propagating rename to orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rename: %w", busyErr(err))
	}
	return nil
}
