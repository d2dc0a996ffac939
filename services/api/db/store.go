package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds the dashboard tables.
const Schema = "dashboard"

// ErrUnknownTable is returned for table names outside the dashboard set.
var ErrUnknownTable = errors.New("unknown table")

// tables lists the tables that can back a db: source.
var tables = map[string]bool{
	"cases":        true,
	"vaccinations": true,
	"countries":    true,
}

// Store wraps database access to the dashboard schema.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ReadTable returns every row of a dashboard table as text cells, with the
// column names as header. NULL becomes an empty cell.
func (s *Store) ReadTable(ctx context.Context, name string) ([]string, [][]string, error) {
	if !tables[name] {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	sql := "SELECT * FROM " + pgx.Identifier{Schema, name}.Sanitize()
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	out := make([][]string, 0)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", name, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		out = append(out, rec)
	}
	return header, out, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
