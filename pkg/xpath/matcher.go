// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xpath implements the small XPath subset that can be evaluated over
// a streaming content event stream without building a tree. Expressions are
// compiled into a Matcher that is descended element by element.
package xpath

// Matcher is the state of an expression at some depth in a document.
type Matcher interface {
	// DescendElement returns the matcher for a child element.
	DescendElement(space, local string) Matcher
	// MatchesElement reports whether the current element is selected.
	MatchesElement() bool
	// MatchesText reports whether text nodes of the current element are selected.
	MatchesText() bool
	// MatchesAttribute reports whether the named attribute of the current element is selected.
	MatchesAttribute(space, local string) bool
}

// Fail matches nothing, at any depth.
var Fail Matcher = failMatcher{}

type failMatcher struct{}

func (failMatcher) DescendElement(string, string) Matcher { return Fail }
func (failMatcher) MatchesElement() bool                  { return false }
func (failMatcher) MatchesText() bool                     { return false }
func (failMatcher) MatchesAttribute(string, string) bool  { return false }

// elementMatcher selects the current element only.
type elementMatcher struct{ failMatcher }

func (elementMatcher) MatchesElement() bool { return true }

// textMatcher selects text of the current element.
type textMatcher struct{ failMatcher }

func (textMatcher) MatchesText() bool { return true }

// nodeMatcher selects the element, its text and its attributes.
type nodeMatcher struct{ failMatcher }

func (nodeMatcher) MatchesElement() bool                 { return true }
func (nodeMatcher) MatchesText() bool                    { return true }
func (nodeMatcher) MatchesAttribute(string, string) bool { return true }

// attributeMatcher selects every attribute of the current element.
type attributeMatcher struct{ failMatcher }

func (attributeMatcher) MatchesAttribute(string, string) bool { return true }

var (
	elementOnly  Matcher = elementMatcher{}
	textOnly     Matcher = textMatcher{}
	anyNode      Matcher = nodeMatcher{}
	anyAttribute Matcher = attributeMatcher{}
)

// namedAttributeMatcher selects one attribute.
type namedAttributeMatcher struct {
	failMatcher
	space, local string
}

func (m namedAttributeMatcher) MatchesAttribute(space, local string) bool {
	return m.space == space && m.local == local
}

// childMatcher applies then to every child element.
type childMatcher struct {
	failMatcher
	then Matcher
}

func (m childMatcher) DescendElement(string, string) Matcher { return m.then }

// namedElementMatcher applies then to child elements with the given name.
type namedElementMatcher struct {
	failMatcher
	space, local string
	then         Matcher
}

func (m namedElementMatcher) DescendElement(space, local string) Matcher {
	if m.space == space && m.local == local {
		return m.then
	}
	return Fail
}

// subtreeMatcher applies then at the current element and every descendant.
type subtreeMatcher struct {
	then Matcher
}

func (m *subtreeMatcher) DescendElement(space, local string) Matcher {
	next := m.then.DescendElement(space, local)
	if next == Fail || next == m.then {
		return m
	}
	return newComposite(next, m)
}

func (m *subtreeMatcher) MatchesElement() bool { return m.then.MatchesElement() }
func (m *subtreeMatcher) MatchesText() bool    { return m.then.MatchesText() }
func (m *subtreeMatcher) MatchesAttribute(space, local string) bool {
	return m.then.MatchesAttribute(space, local)
}

// compositeMatcher matches when either side does.
type compositeMatcher struct {
	a, b Matcher
}

func newComposite(a, b Matcher) Matcher {
	return &compositeMatcher{a: a, b: b}
}

func (m *compositeMatcher) DescendElement(space, local string) Matcher {
	a := m.a.DescendElement(space, local)
	b := m.b.DescendElement(space, local)
	switch {
	case a == Fail:
		return b
	case b == Fail:
		return a
	case a == m.a && b == m.b:
		return m
	default:
		return newComposite(a, b)
	}
}

func (m *compositeMatcher) MatchesElement() bool { return m.a.MatchesElement() || m.b.MatchesElement() }
func (m *compositeMatcher) MatchesText() bool    { return m.a.MatchesText() || m.b.MatchesText() }
func (m *compositeMatcher) MatchesAttribute(space, local string) bool {
	return m.a.MatchesAttribute(space, local) || m.b.MatchesAttribute(space, local)
}
