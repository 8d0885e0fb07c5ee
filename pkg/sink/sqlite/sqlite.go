// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/leseb/solrcell/pkg/sink"
	"github.com/leseb/solrcell/pkg/sink/sqlstore"
)

func init() {
	sink.Providers.Register("sqlite", func(ctx context.Context, params map[string]string) (sink.Sink, error) {
		return New(ctx, params["path"], params["table"])
	})
}

// New opens a SQLite sink on the database file at path, creating it if
// needed. ":memory:" keeps the database in memory.
func New(ctx context.Context, path, table string) (*sqlstore.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite sink: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// one writer at a time; an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	s, err := sqlstore.New(ctx, db, sqlstore.SQLite, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
