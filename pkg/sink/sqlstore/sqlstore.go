// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlstore stores records in a SQL table, one row per record ID with
// the fields encoded as JSON. It backs the postgres and sqlite sinks.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink"
)

// Supported dialects.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DefaultTable is the table records are written to when none is configured.
const DefaultTable = "solr_documents"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// compile-time check
var (
	_ sink.Sink   = (*Store)(nil)
	_ sink.Getter = (*Store)(nil)
)

// Store is a SQL-backed record sink.
type Store struct {
	db      *sql.DB
	dialect string
	table   string
}

// New creates the table if needed and returns a store writing to it. The
// store owns db and closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect, table string) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	switch dialect {
	case Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported dialect: %s (supported: postgres, sqlite)", dialect)
	}
	if table == "" {
		table = DefaultTable
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	s := &Store{db: db, dialect: dialect, table: table}
	if err := s.createTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	ts := "TIMESTAMPTZ"
	if s.dialect == SQLite {
		ts = "TIMESTAMP"
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			fields TEXT NOT NULL DEFAULT '{}',
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, s.table, ts, ts)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%s create table %s: %w", s.dialect, s.table, err)
	}
	return nil
}

// Write upserts rec by its ID.
func (s *Store) Write(ctx context.Context, rec *record.Record) error {
	id, rec := sink.WithID(rec)
	fields, err := sink.Encode(rec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO %s (id, fields, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`, s.table)
	if s.dialect == Postgres {
		query = fmt.Sprintf(`INSERT INTO %s (id, fields, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`, s.table)
	}
	if _, err := s.db.ExecContext(ctx, query, id, string(fields), now, now); err != nil {
		return fmt.Errorf("%s upsert %s: %w", s.dialect, id, err)
	}
	return nil
}

// Get returns the stored fields of the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (sink.Fields, error) {
	query := fmt.Sprintf(`SELECT fields FROM %s WHERE id = ?`, s.table)
	if s.dialect == Postgres {
		query = fmt.Sprintf(`SELECT fields FROM %s WHERE id = $1`, s.table)
	}

	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, sink.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s get %s: %w", s.dialect, id, err)
	}
	return sink.Decode([]byte(data))
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s count: %w", s.dialect, err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}
