// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest feeds the documents of a source through a command chain.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/leseb/solrcell/pkg/command"
	"github.com/leseb/solrcell/pkg/metrics"
	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/source"
)

// DefaultConcurrency is the number of documents processed at once when
// Options.Concurrency is not set.
const DefaultConcurrency = 4

// Options configures a Runner.
type Options struct {
	Concurrency int
	FailFast    bool // stop at the first failed document; rejections never stop a run
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Stats counts documents by outcome.
type Stats struct {
	Processed int64
	Rejected  int64
	Failed    int64
}

// Total returns the number of documents handled.
func (s Stats) Total() int64 {
	return s.Processed + s.Rejected + s.Failed
}

// Runner reads every document of a source and processes it with a command.
type Runner struct {
	src  source.Source
	cmd  command.Command
	opts Options
}

// New creates a runner.
func New(src source.Source, cmd command.Command, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{src: src, cmd: cmd, opts: opts}
}

// Run processes all documents. It returns the first failure when FailFast
// is set, and ctx's error when the run is cancelled.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	docs, err := r.src.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list documents: %w", err)
	}
	r.opts.Logger.Info("ingest started", "documents", len(docs), "concurrency", r.opts.Concurrency)

	var processed, rejected, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for _, doc := range docs {
		doc := doc
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			err := r.process(gctx, doc)
			switch {
			case err == nil:
				processed.Add(1)
				r.opts.Metrics.DocumentOutcome(metrics.OutcomeProcessed)
			case errors.Is(err, command.ErrRejected):
				rejected.Add(1)
				r.opts.Metrics.DocumentOutcome(metrics.OutcomeRejected)
				r.opts.Logger.Debug("document rejected", "id", doc.ID, "mime_type", doc.MimeType, "reason", err)
			default:
				if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
					return nil
				}
				failed.Add(1)
				r.opts.Metrics.DocumentOutcome(metrics.OutcomeFailed)
				r.opts.Logger.Warn("document failed", "id", doc.ID, "mime_type", doc.MimeType, "error", err)
				if r.opts.FailFast {
					return fmt.Errorf("document %s: %w", doc.ID, err)
				}
			}
			return nil
		})
	}
	err = g.Wait()

	stats := Stats{Processed: processed.Load(), Rejected: rejected.Load(), Failed: failed.Load()}
	r.opts.Logger.Info("ingest finished",
		"processed", stats.Processed,
		"rejected", stats.Rejected,
		"failed", stats.Failed)

	if err != nil {
		return stats, err
	}
	return stats, ctx.Err()
}

func (r *Runner) process(ctx context.Context, doc *source.Document) error {
	body, err := r.src.Open(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer body.Close()
	return r.cmd.Process(ctx, NewRecord(doc, body))
}

// NewRecord builds the pipeline input record for a document.
func NewRecord(doc *source.Document, body io.Reader) *record.Record {
	rec := record.New()
	rec.Put(record.FieldID, doc.ID)
	rec.Put(record.FieldAttachmentBody, body)
	if doc.MimeType != "" {
		rec.Put(record.FieldAttachmentMimeType, doc.MimeType)
	}
	if doc.Charset != "" {
		rec.Put(record.FieldAttachmentCharset, doc.Charset)
	}
	if doc.Name != "" {
		rec.Put(record.FieldAttachmentName, doc.Name)
	}
	return rec
}
