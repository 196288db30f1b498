package postgres

import (
	"context"
	"fmt"
	"strings"

	"dialysisdash/domain/tabular"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SeedFacilityTable replaces table with one TEXT column per header and copies
// every row in with COPY FROM STDIN. Empty cells are stored as NULL so the
// table reads back with the same missing values as the file.
func SeedFacilityTable(ctx context.Context, db *sqlx.DB, table string, data *tabular.Table) (int, error) {
	if len(data.Headers) == 0 {
		return 0, fmt.Errorf("nothing to seed: %s has no columns", data.Source)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	columns := make([]string, len(data.Headers))
	for i, h := range data.Headers {
		columns[i] = pq.QuoteIdentifier(h) + " TEXT"
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteTable(table)); err != nil {
		return 0, fmt.Errorf("failed to drop %s: %w", table, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteTable(table), strings.Join(columns, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, copyStatement(table, data.Headers))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for i := range data.Rows {
		args := make([]interface{}, len(data.Headers))
		for j := range data.Headers {
			if cell := data.Cell(i, j); cell != "" {
				args[j] = cell
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to copy row %d: %w", i+1, err)
		}
	}
	// flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to finish copy into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return len(data.Rows), nil
}

func copyStatement(table string, columns []string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pq.CopyInSchema(schema, name, columns...)
	}
	return pq.CopyIn(table, columns...)
}
