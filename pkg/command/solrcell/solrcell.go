// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package solrcell implements the solrCell command. It parses a record's
// attachment with a parser chosen by MIME type and maps the extracted
// content and metadata onto the fields of a Solr schema. The output record
// holds exactly the fields of the resulting document.
//
// Example configuration:
//
//	name: solrCell
//	config:
//	  solrLocator:
//	    collection: docs
//	    zkHost: zk1:2181/solr
//	  capture: [title]
//	  fmap: {content: text}
//	  uprefix: ignored_
//	  parsers:
//	    - parser: pdf
//	    - parser: text
//	      additionalSupportedMimeTypes: [text/*]
package solrcell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leseb/solrcell/pkg/cell"
	"github.com/leseb/solrcell/pkg/command"
	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/metrics"
	"github.com/leseb/solrcell/pkg/observability/logging"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/sax"
	"github.com/leseb/solrcell/pkg/schema"
	"github.com/leseb/solrcell/pkg/schema/locator"
	"github.com/leseb/solrcell/pkg/xpath"
)

// Name is the name the command is registered under.
const Name = "solrCell"

func init() {
	command.Register(Name, Build)
}

// SolrCell is the solrCell command.
type SolrCell struct {
	*command.AttachmentParser

	child    command.Command
	logger   *slog.Logger
	metrics  *metrics.Metrics
	schema   *schema.IndexSchema
	params   cell.Params
	factory  cell.Factory
	matcher  xpath.Matcher
	parsers  *parserTable
	maxDepth int
}

// Build creates a solrCell command from its configuration. The schema is
// loaded here, so the locator must be reachable.
func Build(cfg map[string]any, child command.Command, cctx *command.Context) (command.Command, error) {
	var c config
	if err := command.DecodeConfig(cfg, &c); err != nil {
		return nil, err
	}
	logger := cctx.Log().With("command", Name)

	loc := locator.New(c.SolrLocator.Merge(solrLocatorDefaults(cctx)), locator.WithLogger(logger))
	logger.Debug("solrLocator", "config", loc.Config())
	s, err := loc.IndexSchema(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if logging.TraceEnabled(context.Background(), logger) {
		for _, f := range s.Fields() {
			logging.Trace(context.Background(), logger, "schema field", "name", f.Name, "type", f.Type.Name, "multi_valued", f.MultiValued)
		}
	}

	factoryName := c.HandlerFactory
	if factoryName == "" {
		factoryName = cell.DefaultFactory
	}
	factory, err := cell.LookupFactory(factoryName, c.DateFormats)
	if err != nil {
		return nil, err
	}

	cmd := &SolrCell{
		AttachmentParser: command.NewAttachmentParser(logger),
		child:            child,
		logger:           logger,
		metrics:          metricsOf(cctx),
		schema:           s,
		factory:          factory,
		parsers:          newParserTable(),
		maxDepth:         c.MaxEmbeddedDepth,
		params: cell.Params{
			UnknownFieldPrefix: c.UnknownFieldPrefix,
			Capture:            c.Capture,
			FieldMap:           c.FieldMap,
			CaptureAttributes:  c.CaptureAttributes,
			LowerNames:         c.LowerNames,
			DefaultField:       c.DefaultField,
			XPath:              c.XPath,
			Literals:           c.Literals,
			LiteralsOverride:   c.LiteralsOverride == nil || *c.LiteralsOverride,
		},
	}

	if c.XPath != "" {
		m, err := xpath.Compile(c.XPath)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", c.XPath, err)
		}
		cmd.matcher = m
	}

	for _, mt := range c.SupportedMimeTypes {
		if err := cmd.AddSupportedMimeType(mt); err != nil {
			return nil, fmt.Errorf("supportedMimeTypes: %w", err)
		}
	}
	for i, pc := range c.Parsers {
		if err := cmd.addParser(pc); err != nil {
			return nil, fmt.Errorf("parsers[%d]: %w", i, err)
		}
	}
	if cmd.parsers.len() == 0 {
		return nil, errors.New("no parser is bound to any MIME type")
	}
	return cmd, nil
}

func (c *SolrCell) addParser(pc parserConfig) error {
	if pc.Parser == "" {
		return errors.New("parser name is required")
	}
	p, err := parser.Providers.New(context.Background(), pc.Parser, pc.Params)
	if err != nil {
		return err
	}
	name := parser.Providers.Resolve(pc.Parser)

	bind := func(s string) error {
		mt, err := mediatype.ParseBase(s)
		if err != nil {
			return err
		}
		if err := c.AddSupportedMimeType(s); err != nil {
			return err
		}
		c.parsers.put(mt, name, p)
		return nil
	}

	if pc.SupportedMimeTypes != nil {
		for _, s := range *pc.SupportedMimeTypes {
			if err := bind(s); err != nil {
				return fmt.Errorf("supportedMimeTypes: %w", err)
			}
		}
		return nil
	}
	for _, mt := range p.SupportedTypes() {
		if err := bind(mt.Key()); err != nil {
			return err
		}
	}
	for _, s := range pc.AdditionalSupportedMimeTypes {
		if err := bind(s); err != nil {
			return fmt.Errorf("additionalSupportedMimeTypes: %w", err)
		}
	}
	return nil
}

// Process parses the record's attachment and passes the resulting record
// to the child command.
func (c *SolrCell) Process(ctx context.Context, rec *record.Record) error {
	body, err := c.Open(rec)
	if err != nil {
		c.outcome(err)
		return err
	}
	defer body.Close()

	b, err := c.detectParser(rec)
	if err != nil {
		c.outcome(err)
		return err
	}

	md := metadataFrom(rec)
	handler := c.factory.NewHandler(md, c.params, c.schema)

	var h sax.ContentHandler = handler
	var trace *bytes.Buffer
	if logging.TraceEnabled(ctx, c.logger) {
		trace = &bytes.Buffer{}
		h = sax.NewTee(handler, sax.NewSerializer(trace))
	}
	if c.matcher != nil {
		h = xpath.NewMatchingHandler(h, c.matcher)
	}

	// nested documents (archive entries, attachments) use the same parser
	pctx := &parser.ParseContext{Embedded: b.parser, MaxDepth: c.maxDepth}

	start := time.Now()
	err = b.parser.Parse(ctx, body, h, md, pctx)
	c.metrics.ObserveParse(b.name, time.Since(start))
	if err != nil {
		err = fmt.Errorf("cannot parse: %w", err)
		c.outcome(err)
		return err
	}
	if trace != nil {
		logging.Trace(ctx, c.logger, "debug XML doc", "xhtml", trace.String())
	}

	doc := handler.NewDocument()
	c.logger.Debug("solr doc", "fields", doc.Names())

	out := toRecord(doc)
	c.outcome(nil)
	return c.child.Process(ctx, out)
}

// detectParser picks the parser bound to the record's MIME type.
func (c *SolrCell) detectParser(rec *record.Record) (*binding, error) {
	declared, ok := command.MimeType(rec)
	if !ok {
		c.logger.Debug("command failed because of missing MIME type")
		return nil, command.Rejectf("missing %s", record.FieldAttachmentMimeType)
	}
	mt, err := mediatype.ParseBase(declared)
	if err != nil {
		c.logger.Debug("invalid MIME type", "mime_type", declared, "error", err)
		return nil, command.Rejectf("invalid MIME type %q", declared)
	}

	b, match := c.parsers.lookup(mt)
	if b == nil {
		c.metrics.ParserSelected("", match)
		c.logger.Debug("no supported MIME type parser found", "field", record.FieldAttachmentMimeType, "mime_type", declared)
		return nil, command.Rejectf("no parser for MIME type %q", declared)
	}
	c.metrics.ParserSelected(b.name, match)
	return b, nil
}

func (c *SolrCell) outcome(err error) {
	switch {
	case err == nil:
		c.metrics.RecordOutcome(Name, metrics.OutcomeProcessed)
	case errors.Is(err, command.ErrRejected):
		c.metrics.RecordOutcome(Name, metrics.OutcomeRejected)
	default:
		c.metrics.RecordOutcome(Name, metrics.OutcomeFailed)
	}
}

// metadataFrom seeds parser metadata with the record's fields. The body is
// skipped. The declared MIME type and charset become the Content-Type and
// Content-Encoding hints.
func metadataFrom(rec *record.Record) *parser.Metadata {
	md := parser.NewMetadata()
	for _, name := range rec.Names() {
		if name == record.FieldAttachmentBody {
			continue
		}
		for _, v := range rec.Get(name) {
			md.Add(name, fmt.Sprint(v))
		}
	}
	if declared, ok := command.MimeType(rec); ok {
		md.SetIfEmpty(parser.ContentType, declared)
	}
	if charset, ok := rec.FirstValue(record.FieldAttachmentCharset).(string); ok {
		md.SetIfEmpty(parser.ContentEncoding, charset)
	}
	if name, ok := rec.FirstValue(record.FieldAttachmentName).(string); ok {
		md.SetIfEmpty(parser.ResourceName, name)
	}
	return md
}

// toRecord builds the output record from the document's fields.
func toRecord(doc *cell.Document) *record.Record {
	out := record.New()
	for _, name := range doc.Names() {
		values := doc.Values(name)
		anys := make([]any, len(values))
		for i, v := range values {
			anys[i] = v
		}
		out.ReplaceValues(name, anys...)
	}
	return out
}

func solrLocatorDefaults(cctx *command.Context) locator.Config {
	if cctx == nil {
		return locator.Config{}
	}
	return cctx.SolrLocator
}

func metricsOf(cctx *command.Context) *metrics.Metrics {
	if cctx == nil {
		return nil
	}
	return cctx.Metrics
}
