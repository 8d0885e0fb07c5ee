// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"fmt"
	"strings"

	"github.com/leseb/solrcell/pkg/sax"
)

// Parser compiles expressions using a fixed prefix → namespace map.
type Parser struct {
	prefixes map[string]string
}

// NewParser returns a parser that knows the given prefixes. The empty prefix
// always maps to the empty namespace.
func NewParser(prefixes map[string]string) *Parser {
	p := &Parser{prefixes: map[string]string{"": ""}}
	for k, v := range prefixes {
		p.prefixes[k] = v
	}
	return p
}

// XHTML is a parser with the "xhtml" prefix bound to the XHTML namespace.
var XHTML = NewParser(map[string]string{"xhtml": sax.XHTMLNamespace})

// Compile compiles an expression with the XHTML parser.
func Compile(expr string) (Matcher, error) {
	return XHTML.Parse(expr)
}

// Parse compiles expr. Supported forms:
//
//	/text()  /node()  /descendant::node()  /@*  /@name
//	/*  //  /prefix:name  /name  and the empty path
//
// Syntax outside this subset compiles to Fail rather than an error; an
// unknown namespace prefix is an error.
func (p *Parser) Parse(expr string) (Matcher, error) {
	switch {
	case expr == "/text()":
		return textOnly, nil
	case expr == "/node()":
		return anyNode, nil
	case expr == "/descendant::node()" || expr == "/descendant:node()":
		return newComposite(textOnly, childMatcher{then: &subtreeMatcher{then: anyNode}}), nil
	case expr == "/@*":
		return anyAttribute, nil
	case expr == "":
		return elementOnly, nil
	case strings.HasPrefix(expr, "/@"):
		space, local, err := p.qname(expr[2:])
		if err != nil {
			return nil, err
		}
		return namedAttributeMatcher{space: space, local: local}, nil
	case strings.HasPrefix(expr, "/*"):
		then, err := p.Parse(expr[2:])
		if err != nil {
			return nil, err
		}
		return childMatcher{then: then}, nil
	case strings.HasPrefix(expr, "///"):
		return Fail, nil
	case strings.HasPrefix(expr, "//"):
		then, err := p.Parse(expr[1:])
		if err != nil {
			return nil, err
		}
		return &subtreeMatcher{then: then}, nil
	case strings.HasPrefix(expr, "/"):
		end := strings.IndexByte(expr[1:], '/')
		if end < 0 {
			end = len(expr)
		} else {
			end++
		}
		space, local, err := p.qname(expr[1:end])
		if err != nil {
			return nil, err
		}
		then, err := p.Parse(expr[end:])
		if err != nil {
			return nil, err
		}
		return namedElementMatcher{space: space, local: local, then: then}, nil
	default:
		return Fail, nil
	}
}

func (p *Parser) qname(name string) (space, local string, err error) {
	prefix := ""
	local = name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		prefix, local = name[:i], name[i+1:]
	}
	space, ok := p.prefixes[prefix]
	// An unknown prefix is a compile error, not Fail.
	if !ok {
		return "", "", fmt.Errorf("xpath: unknown namespace prefix %q in %q", prefix, name)
	}
	return space, local, nil
}
