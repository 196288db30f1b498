package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dialysisdash/domain/tabular"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Connect opens and pings a postgres database
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// FacilityTableSource reads the pre-joined facility table from postgres.
// Every column is scanned as nullable text so the loader applies the same
// missing-value and numeric rules it applies to files.
type FacilityTableSource struct {
	db    *sqlx.DB
	table string
}

// NewFacilityTableSource creates a source over a table name, optionally
// schema-qualified (public.dialysis_facilities)
func NewFacilityTableSource(db *sqlx.DB, table string) (*FacilityTableSource, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &FacilityTableSource{db: db, table: table}, nil
}

// Describe names the source for logs
func (s *FacilityTableSource) Describe() string {
	return "postgres table " + s.table
}

// ReadTable selects the whole table once
func (s *FacilityTableSource) ReadTable(ctx context.Context) (*tabular.Table, error) {
	query := "SELECT * FROM " + quoteTable(s.table)

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", s.table, err)
	}

	table := &tabular.Table{Source: s.Describe(), Headers: headers}
	for rows.Next() {
		cells := make([]sql.NullString, len(headers))
		dest := make([]interface{}, len(headers))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row %d: %w", s.table, len(table.Rows)+1, err)
		}

		row := make([]string, len(headers))
		for i, c := range cells {
			if c.Valid {
				row[i] = strings.TrimSpace(c.String)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.table, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table %s has no rows", s.table)
	}

	return table, nil
}

func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
