// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package cell

import (
	"fmt"
	"sort"

	"github.com/leseb/solrcell/pkg/schema"
)

// Factory creates one Handler per document.
type Factory struct {
	// Trim trims every value before it is transformed.
	Trim bool
	// DateLayouts are the time layouts tried for date fields.
	DateLayouts []string
}

// NewHandler creates a handler for one document.
func (f Factory) NewHandler(md Metadata, params Params, s *schema.IndexSchema) *Handler {
	h := NewHandler(md, params, s, f.DateLayouts)
	h.trim = f.Trim
	return h
}

// DefaultFactory is the name of the factory used when none is configured.
const DefaultFactory = "trim"

var factories = map[string]bool{
	"default": false,
	"trim":    true,
}

// factoryAliases map class names used by older configurations.
var factoryAliases = map[string]string{
	"org.apache.solr.handler.extraction.SolrContentHandlerFactory":     "default",
	"org.apache.solr.morphlines.cell.TrimSolrContentHandlerFactory":    "trim",
	"org.apache.solr.morphline.solrcell.TrimSolrContentHandlerFactory": "trim",
}

// LookupFactory returns the named factory ("default" or "trim"). Nil
// dateLayouts selects DefaultDateLayouts.
func LookupFactory(name string, dateLayouts []string) (Factory, error) {
	if target, ok := factoryAliases[name]; ok {
		name = target
	}
	trim, ok := factories[name]
	if !ok {
		known := make([]string, 0, len(factories))
		for k := range factories {
			known = append(known, k)
		}
		sort.Strings(known)
		return Factory{}, fmt.Errorf("unknown content handler factory %q (available: %v)", name, known)
	}
	if dateLayouts == nil {
		dateLayouts = DefaultDateLayouts
	}
	return Factory{Trim: trim, DateLayouts: dateLayouts}, nil
}
