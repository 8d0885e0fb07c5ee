// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// XLSX writes each worksheet as <div class="page"><h1>name</h1><table>.
type XLSX struct{}

func (XLSX) SupportedTypes() []mediatype.MediaType {
	return types(xlsxType)
}

func (XLSX) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read xlsx: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	md.Set(parser.ContentType, xlsxType)
	if props, err := f.GetDocProps(); err == nil && props != nil {
		coreProperties{
			Title:          props.Title,
			Subject:        props.Subject,
			Creator:        props.Creator,
			Keywords:       props.Keywords,
			Description:    props.Description,
			LastModifiedBy: props.LastModifiedBy,
			Created:        props.Created,
			Modified:       props.Modified,
		}.apply(md)
	}

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if err := writeSheet(x, sheet, rows); err != nil {
			return err
		}
	}
	return x.EndDocument()
}

func writeSheet(x *sax.XHTML, name string, rows [][]string) error {
	if err := x.Start("div", sax.Attr("class", "page")); err != nil {
		return err
	}
	if err := x.Element("h1", name); err != nil {
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
	return x.End("div")
}
