// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines pipeline stages. A command processes one record
// and hands its output to the next command in the chain.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leseb/solrcell/pkg/metrics"
	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/schema/locator"
)

// ErrRejected marks a record a command declined to process, such as one
// without an attachment or with an unsupported MIME type. It is not a
// failure of the pipeline.
var ErrRejected = errors.New("record rejected")

// Rejectf returns an error wrapping ErrRejected.
func Rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Command is a pipeline stage.
type Command interface {
	// Process handles rec and passes its output downstream. It returns
	// ErrRejected (possibly wrapped) when the record is declined.
	Process(ctx context.Context, rec *record.Record) error
}

// Func adapts a function to Command.
type Func func(ctx context.Context, rec *record.Record) error

func (f Func) Process(ctx context.Context, rec *record.Record) error {
	return f(ctx, rec)
}

// Context carries dependencies shared by all commands of a pipeline.
type Context struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// SolrLocator fills in locator settings a command leaves empty.
	SolrLocator locator.Config
}

// Log returns the configured logger, or slog.Default when c or its logger
// is nil.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
