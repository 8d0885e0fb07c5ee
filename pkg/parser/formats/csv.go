// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// CSV writes comma or tab separated values as an XHTML table.
type CSV struct{}

func (CSV) SupportedTypes() []mediatype.MediaType {
	return types("text/csv", "text/tab-separated-values")
}

func (CSV) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text, name := decodeText(content, md)
	base, delimiter, comma := "text/csv", "comma", ','
	if declared, err := mediatype.ParseBase(md.Get(parser.ContentType)); err == nil && declared.Subtype == "tab-separated-values" {
		base, delimiter, comma = "text/tab-separated-values", "tab", '\t'
	}
	md.Set(parser.ContentType, fmt.Sprintf("%s; charset=%s; delimiter=%s", base, name, delimiter))
	md.Set(parser.ContentEncoding, name)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable field counts

	rows, err := reader.ReadAll()
	x := sax.NewXHTML(h, md)
	if err != nil {
		// If CSV parsing fails, fall back to raw text
		return rawText(x, text)
	}

	if err := x.StartDocument(); err != nil {
		return err
	}
	if err := x.Start("table"); err != nil {
		return err
	}
	if err := x.Start("tbody"); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(x, row); err != nil {
			return err
		}
	}
	if err := x.End("tbody"); err != nil {
		return err
	}
	if err := x.End("table"); err != nil {
		return err
	}
	return x.EndDocument()
}

func writeRow(x *sax.XHTML, cells []string) error {
	if err := x.Start("tr"); err != nil {
		return err
	}
	for _, cell := range cells {
		if err := x.Element("td", cell); err != nil {
			return err
		}
	}
	return x.End("tr")
}
