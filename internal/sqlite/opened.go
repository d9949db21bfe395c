// Opened-orders working set: the subset of orders currently open in the
// UI, held as a dense positional list 1..N. Opening appends without
// reordering; an already-open order keeps its position.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// OpenOrder adds an order to the working set at the end of the list.
// Opening an order that is already open leaves its position unchanged.
func (s *Store) OpenOrder(id int64) error {
	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning open: %w", err)
	}
	defer tx.Rollback()

	// Insert only if missing; append by using MAX(position)+1. The next
	// position comes from a scalar subquery so the outer SELECT yields no
	// row at all when the entry already exists.
	if _, err := tx.Exec(`
        INSERT INTO opened_orders (order_id, position)
        SELECT ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM opened_orders)
        WHERE NOT EXISTS (SELECT 1 FROM opened_orders WHERE order_id = ?)`,
		id, id,
	); err != nil {
		if isConstraint(err) {
			// The FK rejects ids with no backing order.
			return fmt.Errorf("%w: opening order %d: %v", types.ErrNotFound, id, err)
		}
		return fmt.Errorf("opening order %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing open: %w", busyErr(err))
	}
	return nil
}

// ListOpenedOrders returns the working set in position order.
func (s *Store) ListOpenedOrders() ([]types.OpenedOrder, error) {
	rows, err := s.db.Query(`
        SELECT oo.order_id, o.article_name, oo.position
        FROM opened_orders oo
        JOIN orders o ON o.id = oo.order_id
        ORDER BY oo.position ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing opened orders: %w", err)
	}
	defer rows.Close()

	entries := []types.OpenedOrder{}
	for rows.Next() {
		var e types.OpenedOrder
		if err := rows.Scan(&e.OrderID, &e.ArticleName, &e.Position); err != nil {
			return nil, fmt.Errorf("scanning opened order: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating opened orders: %w", err)
	}
	return entries, nil
}

// CloseOpenedOrder removes an order from the working set and renumbers
// the remaining entries densely from 1, preserving relative order. The
// removal and renumbering commit together so no reader ever observes a
// gapped sequence. Closing an order that is not open is a no-op.
func (s *Store) CloseOpenedOrder(id int64) error {
	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning close: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM opened_orders WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("closing order %d: %w", id, err)
	}

	if err := renumberOpened(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing close: %w", busyErr(err))
	}
	return nil
}

// renumberOpened rewrites positions as 1..N in current position order.
// Runs inside the caller's transaction.
func renumberOpened(tx *sql.Tx) error {
	rows, err := tx.Query(`SELECT order_id FROM opened_orders ORDER BY position ASC`)
	if err != nil {
		return fmt.Errorf("reading opened order ids: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var oid int64
		if err := rows.Scan(&oid); err != nil {
			rows.Close()
			return fmt.Errorf("scanning opened order id: %w", err)
		}
		ids = append(ids, oid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating opened order ids: %w", err)
	}

	for i, oid := range ids {
		if _, err := tx.Exec(
			`UPDATE opened_orders SET position = ? WHERE order_id = ?`,
			int64(i)+1, oid,
		); err != nil {
			return fmt.Errorf("renumbering opened order %d: %w", oid, err)
		}
	}
	return nil
}
