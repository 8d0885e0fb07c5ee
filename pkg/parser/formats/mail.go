// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// Mail parses RFC 822 messages. Headers become metadata, the text body is
// split into paragraphs and attachments are parsed as embedded documents.
type Mail struct{}

func (Mail) SupportedTypes() []mediatype.MediaType {
	return types("message/rfc822")
}

func (Mail) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, pc *parser.ParseContext) error {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return fmt.Errorf("parse message: %w", err)
	}

	md.Set(parser.ContentType, "message/rfc822")
	if subject := strings.TrimSpace(env.GetHeader("Subject")); subject != "" {
		md.Set(parser.Subject, subject)
		md.Set(parser.DCTitle, subject)
		md.Set(parser.Title, subject)
	}
	if from := env.GetHeader("From"); from != "" {
		md.Set(parser.MessageFrom, from)
		md.Set(parser.Creator, from)
	}
	for _, to := range env.GetHeaderValues("To") {
		md.Add(parser.MessageTo, to)
	}
	for _, cc := range env.GetHeaderValues("Cc") {
		md.Add(parser.MessageCc, cc)
	}
	if date, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
		md.Set(parser.Created, date.UTC().Format(time.RFC3339))
	}

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}
	for _, para := range paragraphs(env.Text) {
		if err := x.Element("p", para); err != nil {
			return err
		}
	}

	parts := append(append([]*enmime.Part{}, env.Attachments...), env.Inlines...)
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := parser.ParseEmbedded(ctx, bytes.NewReader(part.Content), part.FileName, part.ContentType, x, md, pc)
		if err != nil {
			return err
		}
	}
	return x.EndDocument()
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
