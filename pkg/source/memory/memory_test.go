// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"context"
	"testing"

	"github.com/leseb/solrcell/pkg/source"
	"github.com/leseb/solrcell/pkg/source/memory"
	"github.com/leseb/solrcell/pkg/source/sourcetest"
)

func TestMemoryConformance(t *testing.T) {
	sourcetest.RunConformanceTests(t, func(t *testing.T, docs map[string][]byte) source.Source {
		src := memory.New()
		for id, content := range docs {
			src.Put(id, "", content)
		}
		return src
	})
}

func TestMemoryDeclaredType(t *testing.T) {
	src := memory.New()
	src.Put("note", "Text/Plain; charset=ISO-8859-1", []byte("x"))
	src.Put("blob.html", "application/octet-stream", []byte("<html></html>"))

	docs, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if docs[0].MimeType != "text/html" {
		t.Errorf("octet-stream should fall back to detection, got %q", docs[0].MimeType)
	}
	if docs[1].MimeType != "text/plain" || docs[1].Charset != "iso-8859-1" {
		t.Errorf("unexpected declared type: %+v", docs[1])
	}
}
