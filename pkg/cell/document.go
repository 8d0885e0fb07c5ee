// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package cell

import "slices"

// Document is the field-based result of mapping one parsed document. Field
// names keep the order in which they were first added.
type Document struct {
	names  []string
	values map[string][]string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string][]string)}
}

// Add appends a value to the named field.
func (d *Document) Add(name, value string) {
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = append(d.values[name], value)
}

// Names returns the field names in insertion order.
func (d *Document) Names() []string {
	return slices.Clone(d.names)
}

// Values returns the values of a field.
func (d *Document) Values(name string) []string {
	return d.values[name]
}

// Get returns the first value of a field, or "".
func (d *Document) Get(name string) string {
	if v := d.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.names)
}
