// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sax

import "encoding/xml"

// Body passes through only the events nested inside <body>, and swallows the
// document start and end. It lets a nested document's content be spliced into
// an enclosing document.
type Body struct {
	next  ContentHandler
	depth int // >0 while inside body
}

// NewBody wraps next with a body filter.
func NewBody(next ContentHandler) *Body {
	return &Body{next: next}
}

func (b *Body) StartDocument() error { return nil }
func (b *Body) EndDocument() error   { return nil }

func (b *Body) StartElement(name xml.Name, attrs []xml.Attr) error {
	if b.depth > 0 {
		b.depth++
		return b.next.StartElement(name, attrs)
	}
	if name.Local == "body" {
		b.depth = 1
	}
	return nil
}

func (b *Body) EndElement(name xml.Name) error {
	if b.depth == 0 {
		return nil
	}
	b.depth--
	if b.depth == 0 {
		return nil
	}
	return b.next.EndElement(name)
}

func (b *Body) Characters(text string) error {
	if b.depth == 0 {
		return nil
	}
	return b.next.Characters(text)
}

func (b *Body) IgnorableWhitespace(text string) error {
	if b.depth == 0 {
		return nil
	}
	return b.next.IgnorableWhitespace(text)
}
