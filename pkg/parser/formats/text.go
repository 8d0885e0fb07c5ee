// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// Text parses plain text into a single paragraph. The character set comes
// from the Content-Encoding hint, the charset parameter of the declared
// type, a byte order mark, or is guessed (UTF-8 if valid, else windows-1252).
type Text struct{}

func (Text) SupportedTypes() []mediatype.MediaType {
	return types("text/plain")
}

func (Text) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text, name := decodeText(content, md)
	md.Set(parser.ContentType, "text/plain; charset="+name)
	md.Set(parser.ContentEncoding, name)

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	if err := x.Element("p", text); err != nil {
		return err
	}
	return x.EndDocument()
}

// decodeText converts content to UTF-8 and returns the canonical name of the
// source character set.
func decodeText(content []byte, md *parser.Metadata) (string, string) {
	var enc encoding.Encoding
	var name string
	if hint := md.Get(parser.ContentEncoding); hint != "" {
		enc, name = charset.Lookup(hint)
	}
	if enc == nil {
		enc, name, _ = charset.DetermineEncoding(content, md.Get(parser.ContentType))
	}

	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		// undecodable input is kept byte for byte
		decoded = content
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), strings.ToUpper(name)
}

func types(names ...string) []mediatype.MediaType {
	out := make([]mediatype.MediaType, len(names))
	for i, n := range names {
		out[i] = mediatype.MustParse(n)
	}
	return out
}
