// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// safeElements are the HTML elements copied into the XHTML output, with the
// attributes kept for each. Other elements are dropped but their text is kept.
var safeElements = map[string][]string{
	"p": nil, "div": nil, "span": nil, "pre": nil, "blockquote": nil, "address": nil,
	"h1": nil, "h2": nil, "h3": nil, "h4": nil, "h5": nil, "h6": nil,
	"ul": nil, "ol": nil, "li": nil, "dl": nil, "dt": nil, "dd": nil,
	"table": nil, "caption": nil, "thead": nil, "tbody": nil, "tfoot": nil,
	"tr": nil, "th": nil, "td": nil,
	"b": nil, "i": nil, "u": nil, "em": nil, "strong": nil, "code": nil, "br": nil,
	"a":   {"href", "name", "rel"},
	"img": {"src", "alt", "title"},
}

// discardedElements are dropped together with their content.
var discardedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"object": true, "applet": true, "iframe": true,
}

// HTML parses HTML into safe XHTML. The title and named meta tags become
// metadata; script and style content is skipped.
type HTML struct{}

func (HTML) SupportedTypes() []mediatype.MediaType {
	return types("text/html", "application/xhtml+xml")
}

func (HTML) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, _ *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text, name := decodeText(content, md)
	md.Set(parser.ContentType, "text/html; charset="+name)
	md.Set(parser.ContentEncoding, name)

	x := sax.NewXHTML(h, md)
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		// Fall back to raw text if HTML is malformed
		return rawText(x, text)
	}

	collectHead(doc, md)

	if err := x.StartDocument(); err != nil {
		return err
	}
	if body := findElement(doc, "body"); body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			if err := writeNode(c, x); err != nil {
				return err
			}
		}
	}
	return x.EndDocument()
}

// collectHead copies <title> and <meta name=... content=...> into metadata.
func collectHead(doc *html.Node, md *parser.Metadata) {
	head := findElement(doc, "head")
	if head == nil {
		return
	}
	for n := head.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "title":
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			if title := strings.TrimSpace(sb.String()); title != "" {
				md.Set(parser.Title, title)
				md.Set(parser.DCTitle, title)
			}
		case "meta":
			name := attr(n, "name")
			if name == "" {
				name = attr(n, "http-equiv")
			}
			content := attr(n, "content")
			if name == "" || content == "" || strings.EqualFold(name, "content-type") {
				continue
			}
			md.Add(name, content)
		}
	}
}

func writeNode(n *html.Node, x *sax.XHTML) error {
	switch n.Type {
	case html.TextNode:
		return x.Characters(n.Data)
	case html.ElementNode:
		if discardedElements[n.Data] {
			return nil
		}
		keep, safe := safeElements[n.Data]
		if safe {
			var attrs []xml.Attr
			for _, k := range keep {
				if v := attr(n, k); v != "" {
					attrs = append(attrs, sax.Attr(k, v))
				}
			}
			if err := x.Start(n.Data, attrs...); err != nil {
				return err
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeNode(c, x); err != nil {
				return err
			}
		}
		if safe {
			return x.End(n.Data)
		}
	}
	return nil
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// rawText writes content as a single paragraph.
func rawText(x *sax.XHTML, content string) error {
	if err := x.StartDocument(); err != nil {
		return err
	}
	if err := x.Element("p", strings.TrimSpace(content)); err != nil {
		return err
	}
	return x.EndDocument()
}
