// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leseb/solrcell/pkg/schema"
)

// fromSchemaAPI fetches <solrUrl>/<collection>/schema.
func (l *Locator) fromSchemaAPI(ctx context.Context) (*schema.IndexSchema, error) {
	if l.cfg.Collection == "" {
		return nil, errors.New("solrUrl requires a collection")
	}
	u, err := url.JoinPath(strings.TrimSuffix(l.cfg.SolrURL, "/"), url.PathEscape(l.cfg.Collection), "schema")
	if err != nil {
		return nil, fmt.Errorf("invalid solrUrl %q: %w", l.cfg.SolrURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?wt=json", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("schema API returned status %d: %s", resp.StatusCode, string(body))
	}

	l.logger.Debug("loaded schema from schema API", "url", u)
	s, err := schema.ParseJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse schema response: %w", err)
	}
	return s, nil
}
