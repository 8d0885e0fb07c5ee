// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink"
)

func init() {
	sink.Providers.Register("memory", func(_ context.Context, _ map[string]string) (sink.Sink, error) {
		return New(), nil
	})
}

// compile-time check
var (
	_ sink.Sink   = (*Sink)(nil)
	_ sink.Getter = (*Sink)(nil)
)

// Sink keeps records in memory, keyed by ID.
type Sink struct {
	mu      sync.RWMutex
	records map[string]*record.Record
	order   []string
}

// New creates an empty in-memory sink.
func New() *Sink {
	return &Sink{
		records: make(map[string]*record.Record),
	}
}

// Write stores a copy of rec.
func (s *Sink) Write(_ context.Context, rec *record.Record) error {
	id, rec := sink.WithID(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = rec.Copy()
	return nil
}

// Get returns the stored fields of the record with the given ID.
func (s *Sink) Get(_ context.Context, id string) (sink.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, fmt.Errorf("record %s: %w", id, sink.ErrRecordNotFound)
	}
	f := make(sink.Fields, rec.Len())
	for _, name := range rec.Names() {
		f[name] = rec.Get(name)
	}
	return f, nil
}

// Records returns the stored records in first-write order.
func (s *Sink) Records() []*record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*record.Record, len(s.order))
	for i, id := range s.order {
		out[i] = s.records[id]
	}
	return out
}

// Close is a no-op for the in-memory sink.
func (s *Sink) Close(_ context.Context) error {
	return nil
}
