// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/leseb/solrcell/pkg/sink/postgres"
	"github.com/leseb/solrcell/pkg/sink/sinktest"
)

func TestPostgresConformance(t *testing.T) {
	dsn := os.Getenv("SINK_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping PostgreSQL conformance tests: SINK_POSTGRES_DSN must be set")
	}

	sinktest.RunConformanceTests(t, func(t *testing.T) sinktest.Store {
		// unique table per sub-test so runs don't collide
		table := fmt.Sprintf("test_%d", time.Now().UnixNano())
		s, err := postgres.New(context.Background(), dsn, table)
		if err != nil {
			t.Fatalf("postgres.New: %v", err)
		}
		return s
	})
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := postgres.New(context.Background(), "", ""); err == nil {
		t.Error("expected error for missing dsn")
	}
}
