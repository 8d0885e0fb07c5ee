// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leseb/solrcell/pkg/provider"
	"github.com/leseb/solrcell/pkg/record"
)

// ErrRecordNotFound is returned by Get when no record has the given ID.
var ErrRecordNotFound = errors.New("record not found")

// Providers is the registry of record sink implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/leseb/solrcell/pkg/sink/jsonl"
//	import _ "github.com/leseb/solrcell/pkg/sink/postgres"
//	import _ "github.com/leseb/solrcell/pkg/sink/sqlite"
var Providers = provider.NewRegistry[Sink]("sink")

// Sink receives the records at the end of a pipeline.
type Sink interface {
	// Write stores rec. A record with an ID that was written before
	// replaces the earlier one.
	Write(ctx context.Context, rec *record.Record) error
	Close(ctx context.Context) error
}

// Fields is the stored form of a record: field name to values.
type Fields map[string][]any

// Getter is implemented by sinks that can read records back.
type Getter interface {
	Get(ctx context.Context, id string) (Fields, error)
}

// WithID returns the record's ID and a record carrying it. A record
// without a non-empty ID is copied and given a random UUID.
func WithID(rec *record.Record) (string, *record.Record) {
	if id, ok := rec.FirstValue(record.FieldID).(string); ok && id != "" {
		return id, rec
	}
	id := uuid.NewString()
	out := rec.Copy()
	out.ReplaceValues(record.FieldID, id)
	return id, out
}

// Encode renders rec as its stored JSON form.
func Encode(rec *record.Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Decode parses the stored JSON form of a record.
func Decode(data []byte) (Fields, error) {
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return f, nil
}
