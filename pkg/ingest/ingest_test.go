// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/leseb/solrcell/pkg/command"
	_ "github.com/leseb/solrcell/pkg/command/solrcell"
	"github.com/leseb/solrcell/pkg/metrics"
	_ "github.com/leseb/solrcell/pkg/parser/formats"
	"github.com/leseb/solrcell/pkg/record"
	sinkmem "github.com/leseb/solrcell/pkg/sink/memory"
	"github.com/leseb/solrcell/pkg/source"
	srcmem "github.com/leseb/solrcell/pkg/source/memory"
)

func newSource() *srcmem.Source {
	src := srcmem.New()
	src.Put("a.txt", "", []byte("alpha"))
	src.Put("b.html", "", []byte("<html><body><p>beta</p></body></html>"))
	src.Put("c.png", "image/png", []byte("\x89PNG"))
	return src
}

func TestNewRecord(t *testing.T) {
	doc := &source.Document{ID: "dir/a.txt", Name: "a.txt", MimeType: "text/plain", Charset: "utf-8"}
	rec := NewRecord(doc, nil)

	tests := map[string]string{
		record.FieldID:                 "dir/a.txt",
		record.FieldAttachmentMimeType: "text/plain",
		record.FieldAttachmentCharset:  "utf-8",
		record.FieldAttachmentName:     "a.txt",
	}
	for field, want := range tests {
		if got := rec.FirstValue(field); got != want {
			t.Errorf("%s: expected %q, got %v", field, want, got)
		}
	}
	if !rec.Has(record.FieldAttachmentBody) {
		t.Error("expected an attachment body")
	}
}

func TestRun_Outcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cmd := command.Func(func(_ context.Context, rec *record.Record) error {
		switch rec.FirstValue(record.FieldAttachmentMimeType) {
		case "image/png":
			return command.Rejectf("unsupported")
		case "text/html":
			return errors.New("boom")
		}
		body, err := command.AttachmentReader(rec)
		if err != nil {
			return err
		}
		_, err = io.ReadAll(body)
		return err
	})

	stats, err := New(newSource(), cmd, Options{Metrics: m}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := (Stats{Processed: 1, Rejected: 1, Failed: 1}); stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
	if stats.Total() != 3 {
		t.Errorf("expected 3 documents, got %d", stats.Total())
	}

	expected := `
# HELP solrcell_ingest_documents_total Source documents fed into the pipeline, by outcome.
# TYPE solrcell_ingest_documents_total counter
solrcell_ingest_documents_total{outcome="failed"} 1
solrcell_ingest_documents_total{outcome="processed"} 1
solrcell_ingest_documents_total{outcome="rejected"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "solrcell_ingest_documents_total"); err != nil {
		t.Error(err)
	}
}

func TestRun_FailFast(t *testing.T) {
	src := srcmem.New()
	for _, id := range []string{"1.txt", "2.txt", "3.txt", "4.txt"} {
		src.Put(id, "", []byte(id))
	}
	var calls atomic.Int64
	cmd := command.Func(func(context.Context, *record.Record) error {
		calls.Add(1)
		return errors.New("broken")
	})

	stats, err := New(src, cmd, Options{Concurrency: 1, FailFast: true}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected the command error, got %v", err)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", stats.Failed)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected the run to stop after the first failure, got %d calls", n)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := command.Func(func(context.Context, *record.Record) error { return nil })
	stats, err := New(newSource(), cmd, Options{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if stats.Processed != 0 {
		t.Errorf("expected nothing processed, got %d", stats.Processed)
	}
}

func TestRun_SolrCellPipeline(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.yaml")
	err := os.WriteFile(schemaPath, []byte(`
name: docs
uniqueKey: id
fieldTypes:
  - {name: string, class: solr.StrField}
  - {name: text, class: solr.TextField}
fields:
  - {name: id, type: string}
  - {name: content, type: text}
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	out := sinkmem.New()
	cmd, err := command.BuildChain([]command.Spec{{
		Name: "solrCell",
		Config: map[string]any{
			"solrLocator": map[string]any{"schemaFile": schemaPath},
			"xpath":       "/xhtml:html/xhtml:body/descendant::node()",
			"parsers": []any{
				map[string]any{"parser": "text"},
				map[string]any{"parser": "html"},
			},
		},
	}}, command.WriterCommand(out), nil)
	if err != nil {
		t.Fatalf("BuildChain: %v", err)
	}

	stats, err := New(newSource(), cmd, Options{Concurrency: 2}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := (Stats{Processed: 2, Rejected: 1}); stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}

	for id, want := range map[string]string{"b.html": "beta", "a.txt": "alpha"} {
		got, err := out.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if !reflect.DeepEqual(got["content"], []any{want}) {
			t.Errorf("%s: expected content %q, got %v", id, want, got["content"])
		}
		// fields outside the schema travel with the record
		if !reflect.DeepEqual(got[record.FieldAttachmentName], []any{id}) {
			t.Errorf("%s: expected %s to be kept, got %v", id, record.FieldAttachmentName, got[record.FieldAttachmentName])
		}
	}
}
