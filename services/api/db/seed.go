package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ReplaceTable recreates a dashboard table from text cells and copies rows
// into it, all in one transaction. Every column is stored as text; blank
// cells become NULL.
func (s *Store) ReplaceTable(ctx context.Context, name string, header []string, rows [][]string) (int64, error) {
	if !tables[name] {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if len(header) == 0 {
		return 0, errors.New("empty header")
	}

	ident := pgx.Identifier{Schema, name}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range []string{
		"CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{Schema}.Sanitize(),
		"DROP TABLE IF EXISTS " + ident.Sanitize(),
		createTableSQL(ident, header),
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("prepare %s: %w", name, err)
		}
	}

	n, err := tx.CopyFrom(ctx, ident, header, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return textRow(rows[i], len(header)), nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func createTableSQL(ident pgx.Identifier, header []string) string {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = pgx.Identifier{h}.Sanitize() + " text"
	}
	return "CREATE TABLE " + ident.Sanitize() + " (" + strings.Join(cols, ", ") + ")"
}

// textRow pads or truncates rec to width.
func textRow(rec []string, width int) []any {
	out := make([]any, width)
	for i := range out {
		if i < len(rec) && rec[i] != "" {
			out[i] = rec[i]
		}
	}
	return out
}
