// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package locator finds the index schema of a Solr collection. The schema
// can come from a local file, a Solr home directory, ZooKeeper (SolrCloud)
// or the Schema API of a running Solr.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/leseb/solrcell/pkg/schema"
)

// ErrNoSchemaSource is returned when a Config names no place to load the
// schema from.
var ErrNoSchemaSource = errors.New("no schema source configured: set schemaFile, solrHomeDir, zkHost or solrUrl")

// Config says where to find a collection's schema. The first non-empty
// source wins, in this order: SchemaFile, SolrHomeDir, ZkHost, SolrURL.
type Config struct {
	Collection  string `yaml:"collection" mapstructure:"collection"`
	ZkHost      string `yaml:"zk_host" mapstructure:"zkHost"`
	SolrURL     string `yaml:"solr_url" mapstructure:"solrUrl"`
	SolrHomeDir string `yaml:"solr_home_dir" mapstructure:"solrHomeDir"`
	SchemaFile  string `yaml:"schema_file" mapstructure:"schemaFile"`
}

// IsZero reports whether no field is set.
func (c Config) IsZero() bool {
	return c == Config{}
}

// Merge returns c with empty fields taken from fallback.
func (c Config) Merge(fallback Config) Config {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Config{
		Collection:  pick(c.Collection, fallback.Collection),
		ZkHost:      pick(c.ZkHost, fallback.ZkHost),
		SolrURL:     pick(c.SolrURL, fallback.SolrURL),
		SolrHomeDir: pick(c.SolrHomeDir, fallback.SolrHomeDir),
		SchemaFile:  pick(c.SchemaFile, fallback.SchemaFile),
	}
}

// Locator loads schemas as described by a Config.
type Locator struct {
	cfg        Config
	httpClient *http.Client
	dial       Dialer
	logger     *slog.Logger
}

// Option customizes a Locator.
type Option func(*Locator)

// WithHTTPClient sets the client used for the Schema API.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Locator) { l.httpClient = c }
}

// WithDialer sets how ZooKeeper connections are made.
func WithDialer(d Dialer) Option {
	return func(l *Locator) { l.dial = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) { l.logger = logger }
}

// New creates a Locator.
func New(cfg Config, opts ...Option) *Locator {
	l := &Locator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dial:       DialZooKeeper,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the locator's configuration.
func (l *Locator) Config() Config {
	return l.cfg
}

// IndexSchema loads the schema.
func (l *Locator) IndexSchema(ctx context.Context) (*schema.IndexSchema, error) {
	switch {
	case l.cfg.SchemaFile != "":
		l.logger.Debug("loading schema from file", "path", l.cfg.SchemaFile)
		return schema.Load(l.cfg.SchemaFile)
	case l.cfg.SolrHomeDir != "":
		return l.fromSolrHome()
	case l.cfg.ZkHost != "":
		return l.fromZooKeeper(ctx)
	case l.cfg.SolrURL != "":
		return l.fromSchemaAPI(ctx)
	}
	return nil, ErrNoSchemaSource
}

// schemaFileNames are tried in order inside a configuration directory.
var schemaFileNames = []string{"managed-schema.xml", "managed-schema", "schema.xml"}

// fromSolrHome looks in <home>/<collection>/conf, or <home>/conf when no
// collection is set.
func (l *Locator) fromSolrHome() (*schema.IndexSchema, error) {
	conf := filepath.Join(l.cfg.SolrHomeDir, l.cfg.Collection, "conf")
	for _, name := range schemaFileNames {
		path := filepath.Join(conf, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		l.logger.Debug("loading schema from solr home", "path", path)
		return schema.Load(path)
	}
	return nil, fmt.Errorf("no schema file found in %s (tried %v)", conf, schemaFileNames)
}
