// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema models the parts of a Solr index schema needed to map
// extracted content onto fields: field types, explicit fields and dynamic
// field patterns.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// dateClasses are the field type classes holding dates.
var dateClasses = map[string]bool{
	"solr.DateField":      true,
	"solr.TrieDateField":  true,
	"solr.DatePointField": true,
	"date":                true,
}

// FieldType is a named field type.
type FieldType struct {
	Name        string
	Class       string
	MultiValued bool
}

// IsDate reports whether values of this type are dates.
func (t *FieldType) IsDate() bool {
	if t == nil {
		return false
	}
	return dateClasses[shortClass(t.Class)]
}

// shortClass turns "org.apache.solr.schema.X" into "solr.X".
func shortClass(class string) string {
	if rest, ok := strings.CutPrefix(class, "org.apache.solr.schema."); ok {
		return "solr." + rest
	}
	return class
}

// Field is an explicit field or a dynamic field pattern.
type Field struct {
	Name        string
	Type        *FieldType
	MultiValued bool
}

// IsDate reports whether the field holds dates.
func (f *Field) IsDate() bool {
	return f != nil && f.Type.IsDate()
}

// IndexSchema is a collection's schema.
type IndexSchema struct {
	Name      string
	UniqueKey string

	types   map[string]*FieldType
	fields  map[string]*Field
	order   []string
	dynamic []*Field
}

// New returns an empty schema.
func New(name, uniqueKey string) *IndexSchema {
	return &IndexSchema{
		Name:      name,
		UniqueKey: uniqueKey,
		types:     make(map[string]*FieldType),
		fields:    make(map[string]*Field),
	}
}

// AddFieldType registers a field type, replacing one of the same name.
func (s *IndexSchema) AddFieldType(t FieldType) {
	s.types[t.Name] = &t
}

// FieldType returns the named type or nil.
func (s *IndexSchema) FieldType(name string) *FieldType {
	return s.types[name]
}

// AddField adds an explicit field. multiValued nil inherits the type's
// setting.
func (s *IndexSchema) AddField(name, typeName string, multiValued *bool) error {
	f, err := s.newField(name, typeName, multiValued)
	if err != nil {
		return err
	}
	if _, exists := s.fields[name]; !exists {
		s.order = append(s.order, name)
	}
	s.fields[name] = f
	return nil
}

// AddDynamicField adds a dynamic field. The pattern has a single leading or
// trailing "*".
func (s *IndexSchema) AddDynamicField(pattern, typeName string, multiValued *bool) error {
	if strings.Count(pattern, "*") != 1 || !(strings.HasPrefix(pattern, "*") || strings.HasSuffix(pattern, "*")) {
		return fmt.Errorf("dynamic field %q: pattern must start or end with a single '*'", pattern)
	}
	f, err := s.newField(pattern, typeName, multiValued)
	if err != nil {
		return err
	}
	s.dynamic = append(s.dynamic, f)
	// longest patterns take precedence
	sort.SliceStable(s.dynamic, func(i, j int) bool {
		return len(s.dynamic[i].Name) > len(s.dynamic[j].Name)
	})
	return nil
}

func (s *IndexSchema) newField(name, typeName string, multiValued *bool) (*Field, error) {
	t, ok := s.types[typeName]
	if !ok {
		return nil, fmt.Errorf("field %q: unknown field type %q", name, typeName)
	}
	f := &Field{Name: name, Type: t, MultiValued: t.MultiValued}
	if multiValued != nil {
		f.MultiValued = *multiValued
	}
	return f, nil
}

// FieldOrNil returns the explicit field called name, else the first dynamic
// field whose pattern matches, else nil.
func (s *IndexSchema) FieldOrNil(name string) *Field {
	if f, ok := s.fields[name]; ok {
		return f
	}
	for _, d := range s.dynamic {
		if matchDynamic(d.Name, name) {
			return d
		}
	}
	return nil
}

func matchDynamic(pattern, name string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(name, suffix)
	}
	return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
}

// Fields returns the explicit fields in declaration order.
func (s *IndexSchema) Fields() []*Field {
	out := make([]*Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// DynamicFields returns the dynamic fields, longest pattern first.
func (s *IndexSchema) DynamicFields() []*Field {
	return append([]*Field(nil), s.dynamic...)
}
