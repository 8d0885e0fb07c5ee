// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package sinktest provides a shared conformance test suite for sink.Sink
// implementations that can read records back. Each backend should call
// RunConformanceTests from its own _test.go file.
package sinktest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink"
)

// Store is a sink that can read records back.
type Store interface {
	sink.Sink
	sink.Getter
}

func newRecord(id string, fields ...string) *record.Record {
	rec := record.New()
	if id != "" {
		rec.Put(record.FieldID, id)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		rec.Put(fields[i], fields[i+1])
	}
	return rec
}

// RunConformanceTests exercises a sink against the shared contract. The
// newStore function is called once per sub-test to provide an isolated
// store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("WriteAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		rec := newRecord("doc-1", "title", "Hello", "content", "first", "content", "second")
		if err := store.Write(ctx, rec); err != nil {
			t.Fatalf("Write: %v", err)
		}

		got, err := store.Get(ctx, "doc-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		want := sink.Fields{
			"id":      {"doc-1"},
			"title":   {"Hello"},
			"content": {"first", "second"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Get returned %v, want %v", got, want)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		if err := store.Write(ctx, newRecord("doc-1", "title", "old")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := store.Write(ctx, newRecord("doc-1", "title", "new")); err != nil {
			t.Fatalf("Write again: %v", err)
		}

		got, err := store.Get(ctx, "doc-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if title := got["title"]; len(title) != 1 || title[0] != "new" {
			t.Errorf("expected replaced title, got %v", title)
		}
	})

	t.Run("GeneratedID", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		rec := newRecord("", "title", "anonymous")
		if err := store.Write(context.Background(), rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if rec.Has(record.FieldID) {
			t.Error("Write must not modify its input")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		_, err := store.Get(context.Background(), "missing")
		if !errors.Is(err, sink.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got: %v", err)
		}
	})

	t.Run("ConcurrentWrites", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- store.Write(ctx, newRecord(fmt.Sprintf("doc-%02d", i), "n", fmt.Sprint(i)))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
		}

		for i := 0; i < n; i++ {
			got, err := store.Get(ctx, fmt.Sprintf("doc-%02d", i))
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if v := got["n"]; len(v) != 1 || v[0] != fmt.Sprint(i) {
				t.Errorf("doc-%02d: unexpected value %v", i, v)
			}
		}
	})
}
