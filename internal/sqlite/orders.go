// Order ledger CRUD. Every write that takes a company name resolves it
// through the directory first and stores the (canonical text, id) pair
// together in the same transaction.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// CreateOrder inserts a new order with done = false and a server-side
// UTC creation timestamp, and returns the generated id.
func (s *Store) CreateOrder(in types.OrderInput) (int64, error) {
	tx, err := s.begin()
	if err != nil {
		return 0, fmt.Errorf("beginning create: %w", err)
	}
	defer tx.Rollback()

	companyID, companyName, err := getOrCreateCompany(tx, in.DeliveryCompany)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`
        INSERT INTO orders
          (client_name, article_name, phone, city, address,
           delivery_company, delivery_company_id, delivery_date, description)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))`,
		in.ClientName, in.ArticleName, in.Phone, in.City, in.Address,
		companyName, companyID, in.DeliveryDate, in.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new order id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing create: %w", busyErr(err))
	}
	return id, nil
}

// GetOrder returns the full order row, or types.ErrNotFound.
func (s *Store) GetOrder(id int64) (*types.Order, error) {
	row := s.db.QueryRow(`
        SELECT id, client_name, article_name, phone, city, address,
               delivery_company, delivery_company_id, COALESCE(delivery_date, ''),
               COALESCE(description, ''), done, created_at
        FROM orders
        WHERE id = ?`, id)

	var o types.Order
	var companyID sql.NullInt64
	var createdAt string
	err := row.Scan(&o.ID, &o.ClientName, &o.ArticleName, &o.Phone, &o.City,
		&o.Address, &o.DeliveryCompany, &companyID, &o.DeliveryDate,
		&o.Description, &o.Done, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	if companyID.Valid {
		o.DeliveryCompanyID = &companyID.Int64
	}
	o.CreatedAt, err = time.Parse(tsLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of order %d: %w", id, err)
	}
	return &o, nil
}

// UpdateOrder replaces all business fields of an existing order. The
// completion flag and creation timestamp are untouched; the company is
// re-resolved the same way as on create. Missing id returns
// types.ErrNotFound.
func (s *Store) UpdateOrder(id int64, in types.OrderInput) error {
	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning update: %w", err)
	}
	defer tx.Rollback()

	companyID, companyName, err := getOrCreateCompany(tx, in.DeliveryCompany)
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
        UPDATE orders SET
          client_name = ?,
          article_name = ?,
          phone = ?,
          city = ?,
          address = ?,
          delivery_company = ?,
          delivery_company_id = ?,
          delivery_date = ?,
          description = NULLIF(?, '')
        WHERE id = ?`,
		in.ClientName, in.ArticleName, in.Phone, in.City, in.Address,
		companyName, companyID, in.DeliveryDate, in.Description, id,
	)
	if err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", busyErr(err))
	}
	return nil
}

// SetOrderDone flips the completion flag and nothing else.
func (s *Store) SetOrderDone(id int64, done bool) error {
	res, err := s.db.Exec(`UPDATE orders SET done = ? WHERE id = ?`, done, id)
	if err != nil {
		return fmt.Errorf("setting done on order %d: %w", id, busyErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting done on order %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteOrder removes an order. The opened-orders entry, if any, goes
// with it via the cascading foreign key; the remaining entries are
// renumbered in the same transaction so positions stay dense.
func (s *Store) DeleteOrder(id int64) error {
	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := renumberOpened(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", busyErr(err))
	}
	return nil
}

// ListOrders returns the summary view, newest first. Ties on the
// creation timestamp break by id so the ordering is deterministic.
func (s *Store) ListOrders() ([]types.OrderSummary, error) {
	rows, err := s.db.Query(`
        SELECT id, article_name, done
        FROM orders
        ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	summaries := []types.OrderSummary{}
	for rows.Next() {
		var sm types.OrderSummary
		if err := rows.Scan(&sm.ID, &sm.ArticleName, &sm.Done); err != nil {
			return nil, fmt.Errorf("scanning order summary: %w", err)
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order summaries: %w", err)
	}
	return summaries, nil
}

// escapeLike escapes the LIKE wildcards (\ % _) for use with ESCAPE '\'.
func escapeLike(input string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(input)
}

// SearchArticleNames returns distinct article names containing query
// (case-insensitive for ASCII), ranked by frequency and then by most
// recent use. limit is clamped to at least 1; non-positive values fall
// back to 10.
func (s *Store) SearchArticleNames(query string, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := s.db.Query(`
        SELECT article_name
        FROM orders
        WHERE article_name LIKE ? ESCAPE '\'
        GROUP BY article_name
        ORDER BY COUNT(*) DESC, MAX(created_at) DESC
        LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching article names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning article name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article names: %w", err)
	}
	return names, nil
}

// LatestDescriptionForArticle returns the most recent non-blank
// description used with the exact article name, for pre-filling a new
// order. The second return is false when no such description exists.
func (s *Store) LatestDescriptionForArticle(name string) (string, bool, error) {
	var desc string
	err := s.db.QueryRow(`
        SELECT description
        FROM orders
        WHERE article_name = ?
          AND description IS NOT NULL
          AND TRIM(description) <> ''
        ORDER BY created_at DESC, id DESC
        LIMIT 1`, name).Scan(&desc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up description for %q: %w", name, err)
	}
	return desc, true, nil
}
