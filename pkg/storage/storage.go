// Package storage implements the per-category query layer on top of a
// single sqlite database holding one independently shaped table per
// category. It exposes the count/fetch/get primitives the aggregator
// builds on; everything returned here is a RawRecord, never a normalized
// item.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// RawRecord is one row of one category's table: column name to scalar
// value, shape varying by category. NULL columns are absent from the map.
type RawRecord map[string]any

// Store wraps the sqlite database holding every category table.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection. Used by schema setup
// and test fixtures.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Count returns the number of rows in the category matching term across
// its search fields. An empty term counts every row.
func (s *Store) Count(ctx context.Context, d catalog.Descriptor, term string) (int, error) {
	where, args := buildPredicate(d, term)
	query := "SELECT COUNT(*) FROM " + d.Name + where

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, s.wrapQueryErr(d.Name, err)
	}
	return n, nil
}

// Fetch returns the [offset, offset+limit) window of rows matching term,
// ordered by the category's order field descending. The filter predicate
// is the same one Count uses.
func (s *Store) Fetch(ctx context.Context, d catalog.Descriptor, term string, offset, limit int) ([]RawRecord, error) {
	if offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0, got %d", offset)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0, got %d", limit)
	}

	where, args := buildPredicate(d, term)
	query := "SELECT * FROM " + d.Name + where +
		" ORDER BY " + d.OrderField + " DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrapQueryErr(d.Name, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	return scanRecords(rows)
}

// GetByID returns the single row with the given id, or
// catalog.ErrItemNotFound.
func (s *Store) GetByID(ctx context.Context, d catalog.Descriptor, id string) (RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+d.Name+" WHERE id = ?", id)
	if err != nil {
		return nil, s.wrapQueryErr(d.Name, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, catalog.ErrItemNotFound
	}
	return records[0], nil
}

// wrapQueryErr maps a missing or broken category table to
// catalog.ErrSourceUnavailable so federated callers can absorb it.
func (s *Store) wrapQueryErr(category string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %s: %v", catalog.ErrSourceUnavailable, category, err)
	}
	return fmt.Errorf("querying %s: %w", category, err)
}

// scanRecords reads every remaining row into RawRecords. Column values
// arrive as driver types; []byte is converted to string, NULLs are
// dropped so "column absent" and "column NULL" look the same downstream.
func scanRecords(rows *sql.Rows) ([]RawRecord, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var records []RawRecord
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		record := make(RawRecord, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case nil:
				// drop NULLs
			case []byte:
				record[col] = string(v)
			default:
				record[col] = v
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
