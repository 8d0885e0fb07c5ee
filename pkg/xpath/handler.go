// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"encoding/xml"

	"github.com/leseb/solrcell/pkg/sax"
)

// MatchingHandler forwards only the parts of the event stream selected by a
// matcher. Document start and end always pass through.
type MatchingHandler struct {
	sax.Decorator
	matcher Matcher
	stack   []Matcher
}

// NewMatchingHandler filters events for next through matcher.
func NewMatchingHandler(next sax.ContentHandler, matcher Matcher) *MatchingHandler {
	return &MatchingHandler{Decorator: sax.Decorator{Next: next}, matcher: matcher}
}

func (h *MatchingHandler) StartElement(name xml.Name, attrs []xml.Attr) error {
	h.stack = append(h.stack, h.matcher)
	h.matcher = h.matcher.DescendElement(name.Space, name.Local)

	var matched []xml.Attr
	for _, a := range attrs {
		if h.matcher.MatchesAttribute(a.Name.Space, a.Name.Local) {
			matched = append(matched, a)
		}
	}

	if h.matcher.MatchesElement() || len(matched) > 0 {
		if err := h.Next.StartElement(name, matched); err != nil {
			return err
		}
		if !h.matcher.MatchesElement() {
			// the start tag was emitted for its attributes; make sure the
			// matching end tag is emitted too
			h.matcher = newComposite(h.matcher, elementOnly)
		}
	}
	return nil
}

func (h *MatchingHandler) EndElement(name xml.Name) error {
	if h.matcher.MatchesElement() {
		if err := h.Next.EndElement(name); err != nil {
			return err
		}
	}
	if n := len(h.stack); n > 0 {
		h.matcher = h.stack[n-1]
		h.stack = h.stack[:n-1]
	}
	return nil
}

func (h *MatchingHandler) Characters(text string) error {
	if h.matcher.MatchesText() {
		return h.Next.Characters(text)
	}
	return nil
}

func (h *MatchingHandler) IgnorableWhitespace(text string) error {
	if h.matcher.MatchesText() {
		return h.Next.IgnorableWhitespace(text)
	}
	return nil
}
