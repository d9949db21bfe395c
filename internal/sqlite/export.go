// JSONL snapshot export: a plain-text backup of the ledger, one record
// per line, written with the temp-file, fsync, rename pattern so a
// crash never leaves a half-written snapshot.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Export file names inside the target directory.
const (
	ordersExportFile    = "orders.jsonl"
	companiesExportFile = "companies.jsonl"
)

// orderExportRecord is one orders.jsonl line.
type orderExportRecord struct {
	ID                int64  `json:"id"`
	ClientName        string `json:"client_name"`
	ArticleName       string `json:"article_name"`
	Phone             string `json:"phone"`
	City              string `json:"city"`
	Address           string `json:"address"`
	DeliveryCompany   string `json:"delivery_company"`
	DeliveryCompanyID *int64 `json:"delivery_company_id"`
	DeliveryDate      string `json:"delivery_date"`
	Description       string `json:"description"`
	Done              bool   `json:"done"`
	CreatedAt         string `json:"created_at"`
}

// companyExportRecord is one companies.jsonl line.
type companyExportRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// ExportJSONL writes orders.jsonl and companies.jsonl snapshots into
// dir, creating it if needed. Rows are ordered by id so consecutive
// exports diff cleanly.
func (s *Store) ExportJSONL(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	orders, err := s.exportOrders()
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dir, ordersExportFile), orders); err != nil {
		return err
	}

	companies, err := s.exportCompanies()
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dir, companiesExportFile), companies)
}

func (s *Store) exportOrders() ([]json.RawMessage, error) {
	rows, err := s.db.Query(`
        SELECT id, client_name, article_name, phone, city, address,
               delivery_company, delivery_company_id, COALESCE(delivery_date, ''),
               COALESCE(description, ''), done, created_at
        FROM orders
        ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying orders for export: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec orderExportRecord
		var companyID *int64
		if err := rows.Scan(&rec.ID, &rec.ClientName, &rec.ArticleName,
			&rec.Phone, &rec.City, &rec.Address, &rec.DeliveryCompany,
			&companyID, &rec.DeliveryDate, &rec.Description, &rec.Done,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order for export: %w", err)
		}
		rec.DeliveryCompanyID = companyID
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling order for export: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders for export: %w", err)
	}
	return records, nil
}

func (s *Store) exportCompanies() ([]json.RawMessage, error) {
	rows, err := s.db.Query(`
        SELECT id, name, active, created_at
        FROM delivery_companies
        ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying companies for export: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec companyExportRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Active, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning company for export: %w", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling company for export: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies for export: %w", err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
