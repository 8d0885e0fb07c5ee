// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"bufio"
	"context"
	"io"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/sax"
)

// Composite dispatches each document to one of its parsers by media type.
// The type comes from the Content-Type metadata hint when one of the parsers
// supports it, and is otherwise detected from the resource name and the
// leading bytes of the stream. Documents nobody supports produce an empty
// XHTML document.
type Composite struct {
	parsers []Parser
	byType  map[string]Parser
}

// NewComposite builds a composite. For a type supported by several parsers
// the first one wins.
func NewComposite(parsers ...Parser) *Composite {
	c := &Composite{parsers: parsers, byType: make(map[string]Parser)}
	for _, p := range parsers {
		for _, t := range p.SupportedTypes() {
			if _, exists := c.byType[t.Key()]; !exists {
				c.byType[t.Key()] = p
			}
		}
	}
	return c
}

// SupportedTypes returns the union of the member parsers' types.
func (c *Composite) SupportedTypes() []mediatype.MediaType {
	seen := make(map[string]bool)
	var types []mediatype.MediaType
	for _, p := range c.parsers {
		for _, t := range p.SupportedTypes() {
			if !seen[t.Key()] {
				seen[t.Key()] = true
				types = append(types, t)
			}
		}
	}
	return types
}

// Parse picks the member parser for the document and delegates to it.
func (c *Composite) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *Metadata, pc *ParseContext) error {
	if declared, err := mediatype.ParseBase(md.Get(ContentType)); err == nil {
		if p, ok := c.byType[declared.Key()]; ok {
			return p.Parse(ctx, r, h, md, pc)
		}
	}

	br := bufio.NewReaderSize(r, mediatype.SniffLen)
	head, _ := br.Peek(mediatype.SniffLen)
	detected := mediatype.Detect(head, md.Get(ResourceName))
	if p, ok := c.byType[detected.Key()]; ok {
		md.Set(ContentType, detected.String())
		return p.Parse(ctx, br, h, md, pc)
	}

	// unsupported: empty document, stream left unread
	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	return x.EndDocument()
}
