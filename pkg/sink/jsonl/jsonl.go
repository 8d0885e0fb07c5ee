// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonl writes records as JSON Lines, one object of field arrays per
// line. Rewritten IDs are appended, so the last line for an ID wins.
package jsonl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sink"
)

func init() {
	sink.Providers.Register("jsonl", func(_ context.Context, params map[string]string) (sink.Sink, error) {
		return Open(params["path"])
	})
}

// compile-time check
var (
	_ sink.Sink   = (*Sink)(nil)
	_ sink.Getter = (*Sink)(nil)
)

// Sink appends records to a file or a writer.
type Sink struct {
	mu     sync.Mutex
	path   string
	w      *bufio.Writer
	closer io.Closer
}

// Open appends to the file at path, creating it if needed. An empty path or
// "-" writes to standard output.
func Open(path string) (*Sink, error) {
	if path == "" || path == "-" {
		return New(os.Stdout), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := New(f)
	s.path, s.closer = path, f
	return s, nil
}

// New writes to w. Closing the sink flushes but does not close w.
func New(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// Write appends one line for rec.
func (s *Sink) Write(_ context.Context, rec *record.Record) error {
	_, rec = sink.WithID(rec)
	line, err := sink.Encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return s.w.WriteByte('\n')
}

// Get scans the file for the last line holding id. Only file-backed sinks
// can read records back.
func (s *Sink) Get(_ context.Context, id string) (sink.Fields, error) {
	if s.path == "" {
		return nil, errors.New("jsonl: sink is not backed by a file")
	}

	s.mu.Lock()
	err := s.w.Flush()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var found sink.Fields
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		fields, err := sink.Decode(scanner.Bytes())
		if err != nil {
			return nil, err
		}
		if ids := fields[record.FieldID]; len(ids) > 0 && ids[0] == id {
			found = fields
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.path, err)
	}
	if found == nil {
		return nil, fmt.Errorf("record %s: %w", id, sink.ErrRecordNotFound)
	}
	return found, nil
}

// Close flushes buffered lines and closes the file.
func (s *Sink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
