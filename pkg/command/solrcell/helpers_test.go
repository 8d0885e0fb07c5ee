// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package solrcell

import (
	"testing"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/schema/locator"
)

func mustParse(t *testing.T, s string) mediatype.MediaType {
	t.Helper()
	mt, err := mediatype.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return mt
}

func locatorConfig(t *testing.T) locator.Config {
	return locator.Config{SchemaFile: schemaFile(t)}
}
