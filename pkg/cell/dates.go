// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package cell

import "time"

// DefaultDateLayouts are tried in order when a value is written to a date
// field. Values without a zone are taken as UTC.
var DefaultDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.UnixDate,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
}

// solrDateLayout renders dates the way Solr stores them, with milliseconds
// only when non-zero.
const solrDateLayout = "2006-01-02T15:04:05.999Z"

// formatDate parses value with the first matching layout and renders it in
// UTC. ok is false when no layout matches.
func formatDate(value string, layouts []string) (string, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(solrDateLayout), true
		}
	}
	return "", false
}
