// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package mediatype parses MIME types and matches them against wildcard ranges.
package mediatype

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Wildcard matches any type or subtype in a range pattern.
const Wildcard = "*"

// Common media types.
var (
	OctetStream = MediaType{Type: "application", Subtype: "octet-stream"}
	TextPlain   = MediaType{Type: "text", Subtype: "plain"}
	Any         = MediaType{Type: Wildcard, Subtype: Wildcard}
)

// MediaType is a parsed MIME type. Type and Subtype are always lowercase.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Parse parses s as a media type, e.g. "text/html; charset=UTF-8".
// Leading and trailing space is ignored and names are lowercased.
func Parse(s string) (MediaType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MediaType{}, errors.New("empty media type")
	}

	full, params, err := mime.ParseMediaType(s)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return MediaType{}, fmt.Errorf("parse media type %q: %w", s, err)
	}

	typ, sub, ok := strings.Cut(full, "/")
	if !ok || typ == "" || sub == "" {
		return MediaType{}, fmt.Errorf("parse media type %q: missing subtype", s)
	}
	return MediaType{Type: typ, Subtype: sub, Params: params}, nil
}

// MustParse is like Parse but panics on error. Intended for package-level tables.
func MustParse(s string) MediaType {
	mt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// ParseBase parses s and drops its parameters.
func ParseBase(s string) (MediaType, error) {
	mt, err := Parse(s)
	if err != nil {
		return MediaType{}, err
	}
	return mt.Base(), nil
}

// Base returns the media type without parameters.
func (m MediaType) Base() MediaType {
	return MediaType{Type: m.Type, Subtype: m.Subtype}
}

// IsWildcard reports whether the type or subtype is a wildcard.
func (m MediaType) IsWildcard() bool {
	return m.Type == Wildcard || m.Subtype == Wildcard
}

// String formats the media type including parameters.
func (m MediaType) String() string {
	base := m.Type + "/" + m.Subtype
	if len(m.Params) == 0 {
		return base
	}
	return mime.FormatMediaType(base, m.Params)
}

// Key returns "type/subtype", suitable as a map key.
func (m MediaType) Key() string {
	return m.Type + "/" + m.Subtype
}

// Matches reports whether mt falls within rangePattern. A pattern type or
// subtype of "*" matches anything in that position.
func Matches(mt, rangePattern MediaType) bool {
	return (rangePattern.Type == Wildcard || rangePattern.Type == mt.Type) &&
		(rangePattern.Subtype == Wildcard || rangePattern.Subtype == mt.Subtype)
}
