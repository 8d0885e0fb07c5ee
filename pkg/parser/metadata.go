// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import "slices"

// Well-known metadata keys written by the built-in parsers.
const (
	ContentType       = "Content-Type"
	ContentEncoding   = "Content-Encoding"
	ContentLength     = "Content-Length"
	ResourceName      = "resourceName"
	Title             = "title"
	DCTitle           = "dc:title"
	Creator           = "dc:creator"
	Author            = "author"
	Subject           = "subject"
	Keywords          = "keywords"
	Description       = "description"
	Created           = "dcterms:created"
	Modified          = "dcterms:modified"
	LastModifiedBy    = "meta:last-author"
	CreatorTool       = "xmp:CreatorTool"
	Producer          = "producer"
	PageCount         = "xmpTPg:NPages"
	PDFVersion        = "pdf:PDFVersion"
	MessageFrom       = "Message-From"
	MessageTo         = "Message-To"
	MessageCc         = "Message-Cc"
	EmbeddedException = "X-TIKA:EXCEPTION:embedded_exception"
)

// Metadata is an ordered multimap of string values describing a document.
// Parsers read hints from it and add what they extract.
type Metadata struct {
	names  []string
	values map[string][]string
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string][]string)}
}

// Add appends a value. Empty values are kept.
func (m *Metadata) Add(name, value string) {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = append(m.values[name], value)
}

// Set replaces all values of name with value.
func (m *Metadata) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = []string{value}
}

// SetIfEmpty sets name only when it has no value and value is non-empty.
func (m *Metadata) SetIfEmpty(name, value string) {
	if value == "" || m.Get(name) != "" {
		return
	}
	m.Set(name, value)
}

// Get returns the first value of name, or "".
func (m *Metadata) Get(name string) string {
	if vals := m.values[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Values returns all values of name.
func (m *Metadata) Values(name string) []string {
	return m.values[name]
}

// Remove deletes name.
func (m *Metadata) Remove(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
}

// Names returns the names in insertion order.
func (m *Metadata) Names() []string {
	return slices.Clone(m.names)
}

// Len returns the number of names.
func (m *Metadata) Len() int {
	return len(m.names)
}
