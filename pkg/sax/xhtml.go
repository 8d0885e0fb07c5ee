// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sax

import "encoding/xml"

// HeadMetadata supplies the <title> and <meta> content written into the
// document head.
type HeadMetadata interface {
	Names() []string
	Values(name string) []string
}

// blockElements are followed by a newline so that adjacent blocks do not run
// together once markup is stripped.
var blockElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"div": true, "ul": true, "ol": true, "dl": true, "pre": true, "hr": true,
	"blockquote": true, "address": true, "fieldset": true, "table": true, "form": true,
	"li": true, "dt": true, "dd": true, "br": true, "tr": true, "caption": true,
	"title": true, "meta": true, "section": true, "article": true,
}

// XHTML writes a well-formed XHTML document to the wrapped handler. The head
// is written lazily, right before the first body content, so parsers can keep
// filling metadata while they scan the document preamble.
type XHTML struct {
	next     ContentHandler
	metadata HeadMetadata

	started  bool
	headDone bool
	ended    bool
}

// NewXHTML wraps next. metadata may be nil.
func NewXHTML(next ContentHandler, metadata HeadMetadata) *XHTML {
	return &XHTML{next: next, metadata: metadata}
}

// StartDocument starts the document and the <html> element.
func (x *XHTML) StartDocument() error {
	if x.started {
		return nil
	}
	x.started = true
	if err := x.next.StartDocument(); err != nil {
		return err
	}
	return x.next.StartElement(Name("html"), nil)
}

func (x *XHTML) writeHead() error {
	if x.headDone {
		return nil
	}
	if err := x.StartDocument(); err != nil {
		return err
	}
	x.headDone = true

	if err := x.next.StartElement(Name("head"), nil); err != nil {
		return err
	}
	if x.metadata != nil {
		for _, name := range x.metadata.Names() {
			if name == "title" {
				continue
			}
			for _, v := range x.metadata.Values(name) {
				if err := x.Element("meta", "", Attr("name", name), Attr("content", v)); err != nil {
					return err
				}
			}
		}
	}
	if err := x.Element("title", x.title()); err != nil {
		return err
	}
	if err := x.next.EndElement(Name("head")); err != nil {
		return err
	}
	return x.next.StartElement(Name("body"), nil)
}

func (x *XHTML) title() string {
	if x.metadata == nil {
		return ""
	}
	for _, key := range []string{"dc:title", "title"} {
		if vals := x.metadata.Values(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// EndDocument closes body and html and ends the document. Calling it more
// than once is a no-op.
func (x *XHTML) EndDocument() error {
	if x.ended {
		return nil
	}
	x.ended = true
	if err := x.writeHead(); err != nil {
		return err
	}
	if err := x.next.EndElement(Name("body")); err != nil {
		return err
	}
	if err := x.next.EndElement(Name("html")); err != nil {
		return err
	}
	return x.next.EndDocument()
}

// StartElement starts a body element.
func (x *XHTML) StartElement(name xml.Name, attrs []xml.Attr) error {
	if err := x.writeHead(); err != nil {
		return err
	}
	if name.Space == "" {
		name.Space = XHTMLNamespace
	}
	return x.next.StartElement(name, attrs)
}

// EndElement ends a body element, followed by a newline for block elements.
func (x *XHTML) EndElement(name xml.Name) error {
	if name.Space == "" {
		name.Space = XHTMLNamespace
	}
	if err := x.next.EndElement(name); err != nil {
		return err
	}
	if blockElements[name.Local] {
		return x.next.IgnorableWhitespace("\n")
	}
	return nil
}

// Characters writes body text. Empty text is dropped.
func (x *XHTML) Characters(text string) error {
	if text == "" {
		return nil
	}
	if err := x.writeHead(); err != nil {
		return err
	}
	return x.next.Characters(text)
}

func (x *XHTML) IgnorableWhitespace(text string) error {
	if err := x.writeHead(); err != nil {
		return err
	}
	return x.next.IgnorableWhitespace(text)
}

// Element writes a complete element with optional text content. Head
// elements bypass the lazy head logic.
func (x *XHTML) Element(local, text string, attrs ...xml.Attr) error {
	name := Name(local)
	var start func(xml.Name, []xml.Attr) error = x.StartElement
	if local == "title" || local == "meta" {
		start = x.next.StartElement
	}
	if err := start(name, attrs); err != nil {
		return err
	}
	if text != "" {
		if err := x.next.Characters(text); err != nil {
			return err
		}
	}
	return x.EndElement(name)
}

// Start is a shorthand for StartElement with an XHTML name.
func (x *XHTML) Start(local string, attrs ...xml.Attr) error {
	return x.StartElement(Name(local), attrs)
}

// End is a shorthand for EndElement with an XHTML name.
func (x *XHTML) End(local string) error {
	return x.EndElement(Name(local))
}
