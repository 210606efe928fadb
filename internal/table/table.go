// Package table reads and writes the CSV tables that stages exchange.
// Every table has a fixed header row; rows are exposed as maps keyed by
// column name so optional columns degrade to empty strings.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Table is an in-memory CSV table.
type Table struct {
	Header []string
	Rows   []map[string]string
}

// HasColumn reports whether the table was written with the given column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Header, name)
}

// Read loads a CSV table from disk. Short records leave the missing
// trailing columns empty instead of failing the row.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := &Table{Header: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write stores rows under the given header, creating parent directories
// as needed. Columns absent from a row are written empty.
func Write(path string, header []string, rows []map[string]string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
