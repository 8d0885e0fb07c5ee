// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// definition is the format-neutral form of a schema document. It matches
// the "schema" object of the Schema API response and the YAML layout.
type definition struct {
	Name          string     `json:"name" yaml:"name"`
	UniqueKey     string     `json:"uniqueKey" yaml:"uniqueKey"`
	FieldTypes    []typeDef  `json:"fieldTypes" yaml:"fieldTypes"`
	Fields        []fieldDef `json:"fields" yaml:"fields"`
	DynamicFields []fieldDef `json:"dynamicFields" yaml:"dynamicFields"`
}

type typeDef struct {
	Name        string `json:"name" yaml:"name"`
	Class       string `json:"class" yaml:"class"`
	MultiValued bool   `json:"multiValued" yaml:"multiValued"`
}

type fieldDef struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	MultiValued *bool  `json:"multiValued" yaml:"multiValued"`
}

func (d *definition) build() (*IndexSchema, error) {
	s := New(d.Name, d.UniqueKey)
	for _, t := range d.FieldTypes {
		if t.Name == "" {
			return nil, fmt.Errorf("field type without a name")
		}
		s.AddFieldType(FieldType{Name: t.Name, Class: t.Class, MultiValued: t.MultiValued})
	}
	for _, f := range d.Fields {
		if err := s.AddField(f.Name, f.Type, f.MultiValued); err != nil {
			return nil, err
		}
	}
	for _, f := range d.DynamicFields {
		if err := s.AddDynamicField(f.Name, f.Type, f.MultiValued); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// xmlSchema is schema.xml / managed-schema. Older files wrap types and
// fields in <types> and <fields>.
type xmlSchema struct {
	Name          string     `xml:"name,attr"`
	UniqueKey     string     `xml:"uniqueKey"`
	FieldTypes    []xmlType  `xml:"fieldType"`
	OldFieldTypes []xmlType  `xml:"types>fieldType"`
	Fields        []xmlField `xml:"field"`
	OldFields     []xmlField `xml:"fields>field"`
	Dynamic       []xmlField `xml:"dynamicField"`
	OldDynamic    []xmlField `xml:"fields>dynamicField"`
}

type xmlType struct {
	Name        string `xml:"name,attr"`
	Class       string `xml:"class,attr"`
	MultiValued string `xml:"multiValued,attr"`
}

type xmlField struct {
	Name        string `xml:"name,attr"`
	Type        string `xml:"type,attr"`
	MultiValued string `xml:"multiValued,attr"`
}

// ParseXML reads a schema.xml or managed-schema document.
func ParseXML(r io.Reader) (*IndexSchema, error) {
	var x xmlSchema
	if err := xml.NewDecoder(r).Decode(&x); err != nil {
		return nil, fmt.Errorf("decode schema xml: %w", err)
	}

	d := definition{Name: x.Name, UniqueKey: strings.TrimSpace(x.UniqueKey)}
	for _, t := range append(x.FieldTypes, x.OldFieldTypes...) {
		mv, err := xmlBool(t.MultiValued)
		if err != nil {
			return nil, fmt.Errorf("field type %q: %w", t.Name, err)
		}
		d.FieldTypes = append(d.FieldTypes, typeDef{Name: t.Name, Class: t.Class, MultiValued: mv != nil && *mv})
	}
	for _, f := range append(x.Fields, x.OldFields...) {
		fd, err := f.def()
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, fd)
	}
	for _, f := range append(x.Dynamic, x.OldDynamic...) {
		fd, err := f.def()
		if err != nil {
			return nil, err
		}
		d.DynamicFields = append(d.DynamicFields, fd)
	}
	return d.build()
}

func (f xmlField) def() (fieldDef, error) {
	mv, err := xmlBool(f.MultiValued)
	if err != nil {
		return fieldDef{}, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return fieldDef{Name: f.Name, Type: f.Type, MultiValued: mv}, nil
}

func xmlBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
	return &b, nil
}

// ParseJSON reads a Schema API response ({"schema": {...}}) or a bare schema
// object.
func ParseJSON(r io.Reader) (*IndexSchema, error) {
	var resp struct {
		Schema *definition `json:"schema"`
		definition
	}
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode schema json: %w", err)
	}
	if resp.Schema != nil {
		return resp.Schema.build()
	}
	return resp.definition.build()
}

// ParseYAML reads a schema in YAML form.
func ParseYAML(r io.Reader) (*IndexSchema, error) {
	var d definition
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode schema yaml: %w", err)
	}
	return d.build()
}

// Load reads a schema file, choosing the decoder by extension: .json, .yaml
// or .yml, anything else is XML.
func Load(path string) (*IndexSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	var s *IndexSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		s, err = ParseJSON(f)
	case ".yaml", ".yml":
		s, err = ParseYAML(f)
	default:
		s, err = ParseXML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
