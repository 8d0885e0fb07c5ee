// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// JSON pretty-prints JSON documents into <pre> blocks. JSON Lines input
// gets one block per line; lines that are not valid JSON are kept as-is.
type JSON struct{}

func (JSON) SupportedTypes() []mediatype.MediaType {
	return types("application/json", "application/x-ndjson", "application/jsonl")
}

func (JSON) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read json: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var blocks []string
	declared, _ := mediatype.ParseBase(md.Get(parser.ContentType))
	if declared.Key() == "application/x-ndjson" || declared.Key() == "application/jsonl" {
		blocks = indentLines(content)
	} else {
		blocks = []string{indentJSON(content)}
		if declared.Key() != "application/json" {
			md.Set(parser.ContentType, "application/json")
		}
	}

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	for _, b := range blocks {
		if err := x.Element("pre", b); err != nil {
			return err
		}
	}
	return x.EndDocument()
}

// indentJSON pretty-prints a JSON document, returning it as-is if invalid.
func indentJSON(content []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return string(content)
	}
	return buf.String()
}

func indentLines(content []byte) []string {
	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, indentJSON([]byte(line)))
	}
	return out
}
