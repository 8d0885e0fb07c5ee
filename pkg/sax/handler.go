// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package sax defines the streaming content event contract that parsers write
// to, plus a handful of composable handlers: an XHTML writer, a tee, a body
// filter and an XML serializer.
package sax

import "encoding/xml"

// XHTMLNamespace is the namespace of every element emitted through XHTML.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// ContentHandler receives the structure and text of a parsed document as a
// stream of events.
type ContentHandler interface {
	StartDocument() error
	EndDocument() error
	StartElement(name xml.Name, attrs []xml.Attr) error
	EndElement(name xml.Name) error
	Characters(text string) error
	IgnorableWhitespace(text string) error
}

// Discard is a ContentHandler that drops every event.
var Discard ContentHandler = discard{}

type discard struct{}

func (discard) StartDocument() error                    { return nil }
func (discard) EndDocument() error                      { return nil }
func (discard) StartElement(xml.Name, []xml.Attr) error { return nil }
func (discard) EndElement(xml.Name) error               { return nil }
func (discard) Characters(string) error                 { return nil }
func (discard) IgnorableWhitespace(string) error        { return nil }

// Decorator forwards every event to Next. Embed it to override a subset.
type Decorator struct {
	Next ContentHandler
}

func (d Decorator) StartDocument() error { return d.Next.StartDocument() }
func (d Decorator) EndDocument() error   { return d.Next.EndDocument() }
func (d Decorator) StartElement(name xml.Name, attrs []xml.Attr) error {
	return d.Next.StartElement(name, attrs)
}
func (d Decorator) EndElement(name xml.Name) error        { return d.Next.EndElement(name) }
func (d Decorator) Characters(text string) error          { return d.Next.Characters(text) }
func (d Decorator) IgnorableWhitespace(text string) error { return d.Next.IgnorableWhitespace(text) }

// Name returns an element name in the XHTML namespace.
func Name(local string) xml.Name {
	return xml.Name{Space: XHTMLNamespace, Local: local}
}

// Attr builds an attribute without namespace.
func Attr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: local}, Value: value}
}
