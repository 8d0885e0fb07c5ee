// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package solrcell

import (
	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/metrics"
	"github.com/leseb/solrcell/pkg/parser"
)

type binding struct {
	pattern mediatype.MediaType
	name    string
	parser  parser.Parser
}

// parserTable maps base media types and ranges to parsers. A later binding
// for the same type replaces an earlier one but keeps its position.
type parserTable struct {
	byKey map[string]*binding
	order []*binding
}

func newParserTable() *parserTable {
	return &parserTable{byKey: make(map[string]*binding)}
}

func (t *parserTable) put(mt mediatype.MediaType, name string, p parser.Parser) {
	mt = mt.Base()
	if b, ok := t.byKey[mt.Key()]; ok {
		b.name, b.parser = name, p
		return
	}
	b := &binding{pattern: mt, name: name, parser: p}
	t.byKey[mt.Key()] = b
	t.order = append(t.order, b)
}

func (t *parserTable) len() int {
	return len(t.order)
}

// lookup finds the parser for mt: an exact base type binding, else the
// first "type/*" range that matches, else the first "*/*" range, each in
// configuration order.
func (t *parserTable) lookup(mt mediatype.MediaType) (*binding, string) {
	if b, ok := t.byKey[mt.Base().Key()]; ok {
		return b, metrics.MatchExact
	}
	var catchAll *binding
	for _, b := range t.order {
		if !b.pattern.IsWildcard() || !mediatype.Matches(mt, b.pattern) {
			continue
		}
		if b.pattern.Type != mediatype.Wildcard {
			return b, metrics.MatchWildcard
		}
		if catchAll == nil {
			catchAll = b
		}
	}
	if catchAll != nil {
		return catchAll, metrics.MatchWildcard
	}
	return nil, metrics.MatchNone
}
