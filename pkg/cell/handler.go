// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package cell maps the content events and metadata of a parsed document
// onto the fields of an index schema.
package cell

import (
	"encoding/xml"
	"strings"
	"unicode"

	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/schema"
)

// Metadata is the read side of parser.Metadata.
type Metadata interface {
	Names() []string
	Values(name string) []string
}

// Handler collects text while a document is parsed and turns it, together
// with the document's metadata, into a Document. Use one handler per
// document.
type Handler struct {
	metadata    Metadata
	params      Params
	schema      *schema.IndexSchema
	dateLayouts []string
	trim        bool

	doc      *Document
	content  strings.Builder
	captured map[string]*strings.Builder
	stack    []*strings.Builder
}

// NewHandler creates a handler that does not trim values. See Factory.
func NewHandler(md Metadata, params Params, s *schema.IndexSchema, dateLayouts []string) *Handler {
	h := &Handler{
		metadata:    md,
		params:      params,
		schema:      s,
		dateLayouts: dateLayouts,
		doc:         NewDocument(),
		captured:    make(map[string]*strings.Builder),
	}
	for _, name := range params.Capture {
		h.captured[name] = &strings.Builder{}
	}
	h.stack = []*strings.Builder{&h.content}
	return h
}

// NewDocument adds literals, metadata, the content field and captured
// element fields, in that order, and returns the document.
func (h *Handler) NewDocument() *Document {
	literal := make(map[string]bool)
	for _, name := range h.params.literalNames() {
		literal[name] = true
		h.addField(name, h.params.Literals[name]...)
	}

	if h.metadata != nil {
		for _, name := range h.metadata.Names() {
			if h.params.LiteralsOverride && literal[name] {
				continue
			}
			h.addField(name, h.metadata.Values(name)...)
		}
	}

	h.addField(ContentField, h.content.String())

	for _, name := range h.params.Capture {
		if b := h.captured[name]; b.Len() > 0 {
			h.addField(name, b.String())
		}
	}
	return h.doc
}

// addField resolves name against the schema and adds the values. Names the
// schema does not know are kept as they are, except for the resource name
// when no unknown field prefix is set.
func (h *Handler) addField(name string, values ...string) {
	if len(values) == 0 {
		return
	}
	if h.params.LowerNames {
		name = lowerName(name)
	}
	if mapped, ok := h.params.FieldMap[name]; ok {
		name = mapped
	}

	field := h.schema.FieldOrNil(name)
	switch {
	case field == nil && h.params.UnknownFieldPrefix != "":
		name = h.params.UnknownFieldPrefix + name
		field = h.schema.FieldOrNil(name)
	case field == nil && h.params.DefaultField != "" && name != parser.ResourceName:
		name = h.params.DefaultField
		field = h.schema.FieldOrNil(name)
	}
	if field == nil && h.params.UnknownFieldPrefix == "" && name == parser.ResourceName {
		return
	}

	if field != nil && !field.MultiValued && len(values) > 1 {
		values = []string{strings.Join(values, " ")}
	}
	for _, v := range values {
		h.doc.Add(name, h.transform(v, field))
	}
}

func (h *Handler) transform(value string, field *schema.Field) string {
	if h.trim {
		value = strings.TrimSpace(value)
	}
	if field != nil && field.IsDate() {
		if formatted, ok := formatDate(value, h.dateLayouts); ok {
			return formatted
		}
	}
	return value
}

// lowerName lowercases letters and digits and turns everything else into
// '_'.
func lowerName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func (h *Handler) top() *strings.Builder {
	return h.stack[len(h.stack)-1]
}

func (h *Handler) StartDocument() error { return nil }
func (h *Handler) EndDocument() error   { return nil }

func (h *Handler) StartElement(name xml.Name, attrs []xml.Attr) error {
	if b, ok := h.captured[name.Local]; ok {
		h.stack = append(h.stack, b)
	}
	if h.params.CaptureAttributes {
		for _, a := range attrs {
			h.addField(name.Local, a.Value)
		}
	} else {
		for _, a := range attrs {
			h.top().WriteByte(' ')
			h.top().WriteString(a.Value)
		}
	}
	h.top().WriteByte(' ')
	return nil
}

func (h *Handler) EndElement(name xml.Name) error {
	if _, ok := h.captured[name.Local]; ok && len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	h.top().WriteByte(' ')
	return nil
}

func (h *Handler) Characters(text string) error {
	h.top().WriteString(text)
	return nil
}

func (h *Handler) IgnorableWhitespace(text string) error {
	h.top().WriteString(text)
	return nil
}
