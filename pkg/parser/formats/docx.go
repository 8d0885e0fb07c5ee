// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// DOCX extracts paragraphs and tables from Word documents. Paragraphs styled
// HeadingN become <hN>.
type DOCX struct{}

func (DOCX) SupportedTypes() []mediatype.MediaType {
	return types(docxType)
}

func (DOCX) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	md.Set(parser.ContentType, docxType)
	readCoreProperties(content).apply(md)

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	if err := writeWordBody(ctx, doc.Editable().GetContent(), x); err != nil {
		return err
	}
	return x.EndDocument()
}

// writeWordBody walks word/document.xml. Paragraph text is buffered so the
// paragraph style, which comes first in w:pPr, can pick the element name.
func writeWordBody(ctx context.Context, document string, x *sax.XHTML) error {
	dec := xml.NewDecoder(strings.NewReader(document))

	var (
		para    strings.Builder
		element = "p"
		inText  bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
				element = "p"
			case "pStyle":
				element = headingElement(wordAttr(t, "val"))
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			case "tbl":
				if err := x.Start("table"); err != nil {
					return err
				}
			case "tr":
				if err := x.Start("tr"); err != nil {
					return err
				}
			case "tc":
				if err := x.Start("td"); err != nil {
					return err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if err := x.Element(element, para.String()); err != nil {
					return err
				}
			case "t":
				inText = false
			case "tbl":
				if err := x.End("table"); err != nil {
					return err
				}
			case "tr":
				if err := x.End("tr"); err != nil {
					return err
				}
			case "tc":
				if err := x.End("td"); err != nil {
					return err
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
}

func headingElement(style string) string {
	style = strings.ToLower(style)
	if strings.HasPrefix(style, "heading") && len(style) == len("heading")+1 {
		if n := style[len(style)-1]; n >= '1' && n <= '6' {
			return "h" + string(n)
		}
	}
	return "p"
}

func wordAttr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
