// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package jsonl_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink/jsonl"
	"github.com/leseb/solrcell/pkg/sink/sinktest"
)

func TestJSONLConformance(t *testing.T) {
	sinktest.RunConformanceTests(t, func(t *testing.T) sinktest.Store {
		s, err := jsonl.Open(filepath.Join(t.TempDir(), "out.jsonl"))
		if err != nil {
			t.Fatalf("jsonl.Open: %v", err)
		}
		return s
	})
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	s := jsonl.New(&buf)

	rec := record.New()
	rec.Put(record.FieldID, "doc-1")
	rec.Put("content", "hello")
	if err := s.Write(context.Background(), rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := `{"id":["doc-1"],"content":["hello"]}` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if _, err := s.Get(context.Background(), "doc-1"); err == nil {
		t.Error("expected Get to fail for a writer-backed sink")
	}
}
