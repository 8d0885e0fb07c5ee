// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package sourcetest provides a shared conformance test suite for
// source.Source implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package sourcetest

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/leseb/solrcell/pkg/source"
)

// Fixture is the document set every backend is seeded with, keyed by ID.
var Fixture = map[string][]byte{
	"a.txt":          []byte("plain text document"),
	"docs/page.html": []byte("<html><body><p>hello</p></body></html>"),
	"docs/scan":      []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"),
	"report.csv":     []byte("a,b\n1,2\n"),
}

var wantTypes = map[string]string{
	"a.txt":          "text/plain",
	"docs/page.html": "text/html",
	"docs/scan":      "application/pdf",
	"report.csv":     "text/csv",
}

// RunConformanceTests exercises a Source implementation against the shared
// contract. The newSource function is called once per sub-test and must
// return a source holding exactly the given documents.
func RunConformanceTests(t *testing.T, newSource func(t *testing.T, docs map[string][]byte) source.Source) {
	t.Helper()

	t.Run("List", func(t *testing.T) {
		src := newSource(t, Fixture)
		defer src.Close(context.Background())

		docs, err := src.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(docs) != len(Fixture) {
			t.Fatalf("expected %d documents, got %d", len(Fixture), len(docs))
		}
		for i, doc := range docs {
			if i > 0 && docs[i-1].ID >= doc.ID {
				t.Errorf("documents not sorted by ID: %q before %q", docs[i-1].ID, doc.ID)
			}
			if want, ok := wantTypes[doc.ID]; !ok {
				t.Errorf("unexpected document %q", doc.ID)
			} else if doc.MimeType != want {
				t.Errorf("%s: expected MIME type %q, got %q", doc.ID, want, doc.MimeType)
			}
			if doc.Size != int64(len(Fixture[doc.ID])) {
				t.Errorf("%s: expected size %d, got %d", doc.ID, len(Fixture[doc.ID]), doc.Size)
			}
			if doc.Name == "" {
				t.Errorf("%s: empty name", doc.ID)
			}
		}
	})

	t.Run("Open", func(t *testing.T) {
		src := newSource(t, Fixture)
		defer src.Close(context.Background())

		for id, want := range Fixture {
			rc, err := src.Open(context.Background(), id)
			if err != nil {
				t.Fatalf("Open(%s): %v", id, err)
			}
			got, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("read %s: %v", id, err)
			}
			if string(got) != string(want) {
				t.Errorf("%s: content mismatch: got %q", id, got)
			}
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		src := newSource(t, Fixture)
		defer src.Close(context.Background())

		_, err := src.Open(context.Background(), "missing.txt")
		if !errors.Is(err, source.ErrDocumentNotFound) {
			t.Errorf("expected ErrDocumentNotFound, got: %v", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		src := newSource(t, map[string][]byte{})
		defer src.Close(context.Background())

		docs, err := src.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("expected no documents, got %d", len(docs))
		}
	})
}
