// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"context"
	"testing"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink/memory"
	"github.com/leseb/solrcell/pkg/sink/sinktest"
)

func TestMemoryConformance(t *testing.T) {
	sinktest.RunConformanceTests(t, func(t *testing.T) sinktest.Store {
		return memory.New()
	})
}

func TestMemoryRecordsOrder(t *testing.T) {
	s := memory.New()
	for _, id := range []string{"b", "a", "b"} {
		rec := record.New()
		rec.Put(record.FieldID, id)
		if err := s.Write(context.Background(), rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	recs := s.Records()
	if len(recs) != 2 || recs[0].FirstValue("id") != "b" || recs[1].FirstValue("id") != "a" {
		t.Errorf("unexpected records: %v", recs)
	}
}
