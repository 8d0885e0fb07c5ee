// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package record defines the field-based record that flows between pipeline
// commands. A record is an ordered multimap: each field name maps to a list of
// values and fields keep the order in which they were first added.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Well-known field names shared by the commands of a pipeline.
const (
	// FieldAttachmentBody holds the raw attachment as []byte or io.Reader.
	FieldAttachmentBody = "_attachment_body"
	// FieldAttachmentMimeType holds the declared MIME type of the attachment.
	FieldAttachmentMimeType = "_attachment_mimetype"
	// FieldAttachmentCharset holds the declared character set of the attachment.
	FieldAttachmentCharset = "_attachment_charset"
	// FieldAttachmentName holds the original file name of the attachment.
	FieldAttachmentName = "_attachment_name"
	// FieldID is the conventional unique key field.
	FieldID = "id"
)

// Record is an ordered multimap of field names to values.
// The zero value is ready to use.
type Record struct {
	names  []string
	values map[string][]any
}

// New creates an empty record.
func New() *Record {
	return &Record{values: make(map[string][]any)}
}

// Get returns the values of a field, or nil when absent.
func (r *Record) Get(name string) []any {
	return r.values[name]
}

// FirstValue returns the first value of a field, or nil when absent.
func (r *Record) FirstValue(name string) any {
	vals := r.values[name]
	if len(vals) == 0 {
		return nil
	}
	return vals[0]
}

// Has reports whether the field has at least one value.
func (r *Record) Has(name string) bool {
	return len(r.values[name]) > 0
}

// Put appends a value to a field.
func (r *Record) Put(name string, value any) {
	r.PutAll(name, value)
}

// PutAll appends values to a field.
func (r *Record) PutAll(name string, values ...any) {
	if len(values) == 0 {
		return
	}
	if r.values == nil {
		r.values = make(map[string][]any)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = append(r.values[name], values...)
}

// ReplaceValues sets the values of a field, keeping its position.
// Replacing with no values removes the field.
func (r *Record) ReplaceValues(name string, values ...any) {
	if len(values) == 0 {
		r.RemoveAll(name)
		return
	}
	if r.values == nil {
		r.values = make(map[string][]any)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = slices.Clone(values)
}

// RemoveAll deletes a field and all its values.
func (r *Record) RemoveAll(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}

// Copy returns a shallow copy; value slices are copied, values are not.
func (r *Record) Copy() *Record {
	cp := New()
	for _, name := range r.names {
		cp.PutAll(name, r.values[name]...)
	}
	return cp
}

// MarshalJSON encodes the record as a JSON object of arrays, in field order.
// Byte slice values are encoded as strings.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		vals := make([]any, len(r.values[name]))
		for j, v := range r.values[name] {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			vals[j] = v
		}
		enc, err := json.Marshal(vals)
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", name, err)
		}
		buf.Write(enc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the record for log output.
func (r *Record) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=[", name)
		for j, v := range r.values[name] {
			if j > 0 {
				buf.WriteString(", ")
			}
			switch t := v.(type) {
			case []byte:
				fmt.Fprintf(&buf, "<%d bytes>", len(t))
			default:
				fmt.Fprint(&buf, v)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.String()
}
