// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sax

import (
	"encoding/xml"
	"io"
)

// Serializer writes the event stream as indented XML. It is used to dump the
// exact event stream a parser produced when tracing.
type Serializer struct {
	enc *xml.Encoder
}

// NewSerializer returns a serializer writing to w.
func NewSerializer(w io.Writer) *Serializer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Serializer{enc: enc}
}

func (s *Serializer) StartDocument() error {
	return s.enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)})
}

func (s *Serializer) EndDocument() error {
	return s.enc.Flush()
}

func (s *Serializer) StartElement(name xml.Name, attrs []xml.Attr) error {
	return s.enc.EncodeToken(xml.StartElement{Name: name, Attr: attrs})
}

func (s *Serializer) EndElement(name xml.Name) error {
	return s.enc.EncodeToken(xml.EndElement{Name: name})
}

func (s *Serializer) Characters(text string) error {
	return s.enc.EncodeToken(xml.CharData(text))
}

func (s *Serializer) IgnorableWhitespace(text string) error {
	return s.enc.EncodeToken(xml.CharData(text))
}
