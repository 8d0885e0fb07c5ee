// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package parser defines the content extraction backend contract. A parser
// reads one document and reports its structure as XHTML content events and
// its properties as metadata. Implementations live in package formats and
// register themselves in Providers.
package parser

import (
	"context"
	"errors"
	"io"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/provider"
	"github.com/leseb/solrcell/pkg/sax"
)

// DefaultMaxDepth bounds how deeply embedded documents are followed.
const DefaultMaxDepth = 8

var (
	// ErrMaxDepth is returned when embedded documents nest too deeply.
	ErrMaxDepth = errors.New("embedded documents nested too deeply")
	// ErrEncrypted is returned for password protected documents.
	ErrEncrypted = errors.New("document is encrypted")
)

// Parser extracts content from one document format family.
type Parser interface {
	// SupportedTypes returns the media types this parser understands.
	SupportedTypes() []mediatype.MediaType

	// Parse reads r and writes a complete XHTML document to h. Metadata
	// carries hints in (resource name, charset, declared type) and results out.
	Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *Metadata, pc *ParseContext) error
}

// Providers is the registry of parser implementations.
// Import the formats package with a blank import to register the built-ins:
//
//	import _ "github.com/leseb/solrcell/pkg/parser/formats"
var Providers = provider.NewRegistry[Parser]("parser")

// ParseContext carries per-parse settings shared with nested documents.
type ParseContext struct {
	// Embedded parses documents found inside the one being parsed, such as
	// archive entries or mail attachments. Nil skips their content.
	Embedded Parser
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int

	depth int
}

// Depth returns how many embedded levels deep this context is.
func (pc *ParseContext) Depth() int {
	if pc == nil {
		return 0
	}
	return pc.depth
}

func (pc *ParseContext) maxDepth() int {
	if pc.MaxDepth > 0 {
		return pc.MaxDepth
	}
	return DefaultMaxDepth
}

// nested returns the context for a document one level deeper.
func (pc *ParseContext) nested() (*ParseContext, error) {
	if pc.depth+1 > pc.maxDepth() {
		return nil, ErrMaxDepth
	}
	child := *pc
	child.depth++
	return &child, nil
}

// SupportsType reports whether p lists mt (by base type) among its types.
func SupportsType(p Parser, mt mediatype.MediaType) bool {
	for _, t := range p.SupportedTypes() {
		if t.Key() == mt.Key() {
			return true
		}
	}
	return false
}

func init() {
	// class names used by older pipeline configurations
	for alias, name := range map[string]string{
		"org.apache.tika.parser.txt.TXTParser":               "text",
		"org.apache.tika.parser.html.HtmlParser":             "html",
		"org.apache.tika.parser.pdf.PDFParser":               "pdf",
		"org.apache.tika.parser.csv.TextAndCSVParser":        "csv",
		"org.apache.tika.parser.microsoft.ooxml.OOXMLParser": "ooxml",
		"org.apache.tika.parser.mail.RFC822Parser":           "mail",
		"org.apache.tika.parser.pkg.PackageParser":           "package",
		"org.apache.tika.parser.pkg.CompressorParser":        "package",
		"org.apache.tika.parser.AutoDetectParser":            "auto",
		"org.apache.tika.parser.DefaultParser":               "auto",
	} {
		Providers.Alias(alias, name)
	}
}
