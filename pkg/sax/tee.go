// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package sax

import (
	"encoding/xml"
	"errors"
)

// Tee forwards every event to all handlers in order. All handlers see the
// event even when an earlier one fails; the errors are joined.
type Tee []ContentHandler

// NewTee returns a handler fanning out to handlers. A single handler is
// returned unchanged.
func NewTee(handlers ...ContentHandler) ContentHandler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return Tee(handlers)
}

func (t Tee) each(fn func(ContentHandler) error) error {
	var errs []error
	for _, h := range t {
		if err := fn(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) StartDocument() error {
	return t.each(func(h ContentHandler) error { return h.StartDocument() })
}

func (t Tee) EndDocument() error {
	return t.each(func(h ContentHandler) error { return h.EndDocument() })
}

func (t Tee) StartElement(name xml.Name, attrs []xml.Attr) error {
	return t.each(func(h ContentHandler) error { return h.StartElement(name, attrs) })
}

func (t Tee) EndElement(name xml.Name) error {
	return t.each(func(h ContentHandler) error { return h.EndElement(name) })
}

func (t Tee) Characters(text string) error {
	return t.each(func(h ContentHandler) error { return h.Characters(text) })
}

func (t Tee) IgnorableWhitespace(text string) error {
	return t.each(func(h ContentHandler) error { return h.IgnorableWhitespace(text) })
}
