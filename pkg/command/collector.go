// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sync"

	"github.com/leseb/solrcell/pkg/record"
)

// Collector is a terminal command that keeps every record it receives.
type Collector struct {
	mu      sync.Mutex
	records []*record.Record
}

func (c *Collector) Process(_ context.Context, rec *record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec.Copy())
	return nil
}

// Records returns the collected records.
func (c *Collector) Records() []*record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*record.Record(nil), c.records...)
}

// Reset drops the collected records.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

// Writer is where a pipeline's output records end up.
type Writer interface {
	Write(ctx context.Context, rec *record.Record) error
}

// WriterCommand is a terminal command writing every record to w.
func WriterCommand(w Writer) Command {
	return Func(func(ctx context.Context, rec *record.Record) error {
		return w.Write(ctx, rec)
	})
}
