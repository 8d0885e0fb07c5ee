// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink/sinktest"
	"github.com/leseb/solrcell/pkg/sink/sqlite"
)

func TestSQLiteConformance(t *testing.T) {
	sinktest.RunConformanceTests(t, func(t *testing.T) sinktest.Store {
		s, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "sink.db"), "")
		if err != nil {
			t.Fatalf("sqlite.New: %v", err)
		}
		return s
	})
}

func TestSQLiteCount(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.New(ctx, ":memory:", "docs")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	defer s.Close(ctx)

	for _, id := range []string{"a", "b", "a"} {
		rec := record.New()
		rec.Put(record.FieldID, id)
		if err := s.Write(ctx, rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestSQLiteInvalidTable(t *testing.T) {
	if _, err := sqlite.New(context.Background(), ":memory:", "docs; DROP TABLE x"); err == nil {
		t.Error("expected error for invalid table name")
	}
	if _, err := sqlite.New(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty path")
	}
}
