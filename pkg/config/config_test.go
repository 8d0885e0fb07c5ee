// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
log:
  level: debug
server:
  address: ":8080"
  timeout: 30s
solr:
  collection: docs
  zk_host: zk1:2181/solr
source:
  type: s3
  params:
    bucket: inbox
sink:
  type: sqlite
  params:
    path: out.db
ingest:
  concurrency: 8
  fail_fast: true
pipeline:
  - name: solrCell
    config:
      uprefix: ignored_
      fmap: {content: text}
      parsers:
        - parser: pdf
        - parser: text
          additionalSupportedMimeTypes: [text/*]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Server.Address != ":8080" || cfg.Server.Timeout != 30*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Solr.Collection != "docs" || cfg.Solr.ZkHost != "zk1:2181/solr" {
		t.Errorf("unexpected solr config: %+v", cfg.Solr)
	}
	if cfg.Source.Type != "s3" || cfg.Source.Params["bucket"] != "inbox" {
		t.Errorf("unexpected source config: %+v", cfg.Source)
	}
	if cfg.Sink.Type != "sqlite" || cfg.Sink.Params["path"] != "out.db" {
		t.Errorf("unexpected sink config: %+v", cfg.Sink)
	}
	if cfg.Ingest.Concurrency != 8 || !cfg.Ingest.FailFast {
		t.Errorf("unexpected ingest config: %+v", cfg.Ingest)
	}
	if len(cfg.Pipeline) != 1 || cfg.Pipeline[0].Name != "solrCell" {
		t.Fatalf("unexpected pipeline: %+v", cfg.Pipeline)
	}
	parsers, ok := cfg.Pipeline[0].Config["parsers"].([]any)
	if !ok || len(parsers) != 2 {
		t.Errorf("expected two parsers, got %#v", cfg.Pipeline[0].Config["parsers"])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SOLR_URL", "http://solr:8983/solr")
	t.Setenv("SOLR_ZK_HOST", "zk9:2181")
	t.Setenv("SOLR_COLLECTION", "other")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/solr")

	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "trace" || cfg.Log.Format != "json" {
		t.Errorf("log env overrides not applied: %+v", cfg.Log)
	}
	if cfg.Solr.SolrURL != "http://solr:8983/solr" || cfg.Solr.ZkHost != "zk9:2181" || cfg.Solr.Collection != "other" {
		t.Errorf("solr env overrides not applied: %+v", cfg.Solr)
	}
	if cfg.Sink.Type != "postgres" || cfg.Sink.Params["dsn"] != "postgres://u:p@db/solr" {
		t.Errorf("DATABASE_URL should select the postgres sink: %+v", cfg.Sink)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "pipeline: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Source.Type != "filesystem" || cfg.Source.Params["root"] != "." {
		t.Errorf("unexpected source defaults: %+v", cfg.Source)
	}
	if cfg.Sink.Type != "jsonl" {
		t.Errorf("unexpected sink defaults: %+v", cfg.Sink)
	}
	if cfg.Server.Address != "" || cfg.Server.Timeout != time.Minute {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Ingest.Concurrency != 4 {
		t.Errorf("unexpected ingest defaults: %+v", cfg.Ingest)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an empty pipeline")
	}
}
