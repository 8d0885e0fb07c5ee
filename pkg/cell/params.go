// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package cell

import "sort"

// ContentField receives all text outside captured elements.
const ContentField = "content"

// Params controls how extracted content and metadata become fields.
type Params struct {
	// UnknownFieldPrefix is prepended to names the schema does not know.
	UnknownFieldPrefix string
	// Capture lists element names whose text goes to a field of the same
	// name instead of the content field.
	Capture []string
	// FieldMap renames fields before the schema lookup.
	FieldMap map[string]string
	// CaptureAttributes turns element attributes into fields named after the
	// element. Otherwise attribute values are part of the text.
	CaptureAttributes bool
	// LowerNames lowercases names and replaces characters other than letters
	// and digits with '_'.
	LowerNames bool
	// DefaultField receives unknown fields when no prefix is set.
	DefaultField string
	// XPath restricts the content events seen by the handler.
	XPath string
	// Literals are fixed field values added to every document.
	Literals map[string][]string
	// LiteralsOverride drops metadata that has the name of a literal.
	LiteralsOverride bool
}

// DefaultParams returns the zero configuration with literals overriding
// metadata.
func DefaultParams() Params {
	return Params{LiteralsOverride: true}
}

func (p Params) literalNames() []string {
	names := make([]string, 0, len(p.Literals))
	for name := range p.Literals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
