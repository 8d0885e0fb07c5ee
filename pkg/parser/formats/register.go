// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package formats provides the built-in parsers and registers them with
// parser.Providers:
//
//	text     plain text
//	html     HTML and XHTML
//	pdf      PDF
//	csv      comma and tab separated values
//	json     JSON and JSON Lines
//	docx     Word documents
//	xlsx     Excel workbooks
//	ooxml    docx and xlsx
//	mail     RFC 822 messages
//	package  zip, tar and gzip
//	auto     all of the above, chosen by detected type
package formats

import (
	"context"

	"github.com/leseb/solrcell/pkg/parser"
)

// NewAuto returns a parser that detects the document type and dispatches to
// the matching built-in parser.
func NewAuto() *parser.Composite {
	return parser.NewComposite(
		Text{}, HTML{}, PDF{}, CSV{}, JSON{},
		DOCX{}, XLSX{}, Mail{}, Package{},
	)
}

func register(name string, p func() parser.Parser) {
	parser.Providers.Register(name, func(context.Context, map[string]string) (parser.Parser, error) {
		return p(), nil
	})
}

func init() {
	register("text", func() parser.Parser { return Text{} })
	register("html", func() parser.Parser { return HTML{} })
	register("pdf", func() parser.Parser { return PDF{} })
	register("csv", func() parser.Parser { return CSV{} })
	register("json", func() parser.Parser { return JSON{} })
	register("docx", func() parser.Parser { return DOCX{} })
	register("xlsx", func() parser.Parser { return XLSX{} })
	register("ooxml", func() parser.Parser { return NewOOXML() })
	register("mail", func() parser.Parser { return Mail{} })
	register("package", func() parser.Parser { return Package{} })
	register("auto", func() parser.Parser { return NewAuto() })
}
