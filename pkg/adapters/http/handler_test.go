// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/leseb/solrcell/pkg/command"
	_ "github.com/leseb/solrcell/pkg/command/solrcell"
	"github.com/leseb/solrcell/pkg/observability/logging"
	_ "github.com/leseb/solrcell/pkg/parser/formats"
	sinkmem "github.com/leseb/solrcell/pkg/sink/memory"
)

const testSchema = `<schema name="docs">
  <uniqueKey>id</uniqueKey>
  <fieldType name="string" class="solr.StrField"/>
  <fieldType name="text" class="solr.TextField"/>
  <fieldType name="strings" class="solr.StrField" multiValued="true"/>
  <field name="id" type="string"/>
  <field name="content" type="text"/>
  <field name="tags" type="strings"/>
</schema>`

func newTestHandler(t *testing.T) (*Handler, *sinkmem.Sink) {
	t.Helper()
	schemaPath := filepath.Join(t.TempDir(), "schema.xml")
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	chain, err := command.Build("solrCell", map[string]any{
		"solrLocator":      map[string]any{"schemaFile": schemaPath},
		"literal":          map[string]any{"tags": "http"},
		"literalsOverride": false,
		"parsers":          []any{map[string]any{"parser": "text"}},
		"xpath":            "/xhtml:html/xhtml:body/descendant::node()",
	}, Terminal(), nil)
	if err != nil {
		t.Fatalf("build chain: %v", err)
	}

	out := sinkmem.New()
	logger := logging.New(logging.Config{Level: "error", Output: &bytes.Buffer{}})
	return New(chain, out, logger), out
}

type response struct {
	Object    string                     `json:"object"`
	Data      []map[string][]interface{} `json:"data"`
	Committed bool                       `json:"committed"`
	Error     map[string]string          `json:"error"`
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, response) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestListParsers(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/parsers", nil))

	var resp struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, name := range resp.Data {
		if name == "pdf" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pdf among parsers, got %v", resp.Data)
	}
}

func TestExtract_RawBody(t *testing.T) {
	h, out := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/extract?id=doc-1&literal.tags=extra", bytes.NewReader([]byte("raw text")))
	req.Header.Set("Content-Type", "text/plain")
	code, resp := do(t, h, req)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp.Error)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected one record, got %d", len(resp.Data))
	}
	rec := resp.Data[0]
	if rec["id"][0] != "doc-1" || rec["content"][0] != "raw text" {
		t.Errorf("unexpected record: %v", rec)
	}
	if len(rec["tags"]) != 2 {
		t.Errorf("expected literal and request tags, got %v", rec["tags"])
	}
	if resp.Committed || len(out.Records()) != 0 {
		t.Error("records should not be written without commit")
	}
}

func TestExtract_MultipartCommit(t *testing.T) {
	h, out := newTestHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("uploaded notes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract?commit=true", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, resp := do(t, h, req)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp.Error)
	}
	if !resp.Committed {
		t.Error("expected committed response")
	}
	got, err := out.Get(context.Background(), "notes.txt")
	if err != nil {
		t.Fatalf("record not written to sink: %v", err)
	}
	if got["content"][0] != "uploaded notes" {
		t.Errorf("unexpected stored content: %v", got["content"])
	}
}

func TestExtract_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name        string
		body        []byte
		contentType string
		query       string
		wantStatus  int
	}{
		{"empty body", nil, "text/plain", "", http.StatusBadRequest},
		{"unsupported type", []byte("%PDF-1.4"), "application/pdf", "", http.StatusUnsupportedMediaType},
		{"declared override", []byte("x"), "text/plain", "?mime_type=image/png", http.StatusUnsupportedMediaType},
		{"missing file part", []byte("--b--\r\n"), "multipart/form-data; boundary=b", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/extract"+tt.query, bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			code, resp := do(t, h, req)
			if code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, code)
			}
			if resp.Error["message"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestExtract_CommitWithoutSink(t *testing.T) {
	h, _ := newTestHandler(t)
	h.writer = nil

	req := httptest.NewRequest(http.MethodPost, "/v1/extract?commit=1", bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Type", "text/plain")
	code, _ := do(t, h, req)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}
