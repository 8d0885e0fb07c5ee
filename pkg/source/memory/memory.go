// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/leseb/solrcell/pkg/source"
)

func init() {
	source.Providers.Register("memory", func(_ context.Context, _ map[string]string) (source.Source, error) {
		return New(), nil
	})
}

// compile-time check
var _ source.Source = (*Source)(nil)

type entry struct {
	doc     source.Document
	content []byte
}

// Source is an in-memory document source.
type Source struct {
	mu   sync.RWMutex
	docs map[string]*entry
}

// New creates a new empty in-memory source.
func New() *Source {
	return &Source{
		docs: make(map[string]*entry),
	}
}

// Put stores content under id, replacing any previous document. An empty
// mimeType is detected from the name and content.
func (s *Source) Put(id, mimeType string, content []byte) {
	name := path.Base(id)
	mt, charset := source.DetectMimeType(mimeType, name, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = &entry{
		doc: source.Document{
			ID:       id,
			Name:     name,
			MimeType: mt,
			Charset:  charset,
			Size:     int64(len(content)),
			ModTime:  time.Now(),
		},
		content: content,
	}
}

// List returns copies of all documents sorted by ID.
func (s *Source) List(_ context.Context) ([]*source.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*source.Document, 0, len(s.docs))
	for _, e := range s.docs {
		cp := e.doc
		docs = append(docs, &cp)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Open returns a reader over the stored content.
func (s *Source) Open(_ context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.docs[id]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", id, source.ErrDocumentNotFound)
	}
	return io.NopCloser(bytes.NewReader(e.content)), nil
}

// Close is a no-op for the in-memory source.
func (s *Source) Close(_ context.Context) error {
	return nil
}
