// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// pdfInfo maps document information dictionary keys to metadata names.
var pdfInfo = []struct {
	key   string
	names []string
}{
	{"Title", []string{parser.DCTitle, parser.Title}},
	{"Author", []string{parser.Creator, parser.Author}},
	{"Subject", []string{parser.Subject}},
	{"Keywords", []string{parser.Keywords}},
	{"Creator", []string{parser.CreatorTool}},
	{"Producer", []string{parser.Producer}},
}

// PDF extracts the text of every page, one <div class="page"> per page.
type PDF struct{}

func (PDF) SupportedTypes() []mediatype.MediaType {
	return types("application/pdf")
}

func (PDF) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if strings.Contains(err.Error(), "password") || strings.Contains(err.Error(), "encrypt") {
			return fmt.Errorf("open PDF: %w: %v", parser.ErrEncrypted, err)
		}
		return fmt.Errorf("open PDF: %w", err)
	}

	md.Set(parser.ContentType, "application/pdf")
	if v := pdfVersion(content); v != "" {
		md.Set(parser.PDFVersion, v)
	}
	info := reader.Trailer().Key("Info")
	for _, f := range pdfInfo {
		if v := strings.TrimSpace(info.Key(f.key).Text()); v != "" {
			for _, name := range f.names {
				md.Set(name, v)
			}
		}
	}
	if t, ok := pdfDate(info.Key("CreationDate").Text()); ok {
		md.Set(parser.Created, t)
	}
	if t, ok := pdfDate(info.Key("ModDate").Text()); ok {
		md.Set(parser.Modified, t)
	}

	numPages := reader.NumPage()
	md.Set(parser.PageCount, strconv.Itoa(numPages))

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			continue
		}
		if err := x.Start("div", sax.Attr("class", "page")); err != nil {
			return err
		}
		if err := x.Element("p", text); err != nil {
			return err
		}
		if err := x.End("div"); err != nil {
			return err
		}
	}
	return x.EndDocument()
}

// pageText extracts one page. The reader panics on some malformed content
// streams; that is reported as an error for the page.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// pdfVersion reads the version from the "%PDF-1.x" header.
func pdfVersion(content []byte) string {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return ""
	}
	rest := content[5:]
	end := bytes.IndexAny(rest, "\r\n \t%")
	if end < 0 || end > 8 {
		return ""
	}
	return string(rest[:end])
}

var pdfDateLayouts = []string{
	"20060102150405-07'00'",
	"20060102150405-07'00",
	"20060102150405-0700",
	"20060102150405Z",
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
}

// pdfDate converts a PDF date string ("D:20130501120000+02'00'") to RFC 3339
// in UTC.
func pdfDate(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	if s == "" {
		return "", false
	}
	s = strings.Replace(s, "Z00'00'", "Z", 1)
	for _, layout := range pdfDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}
