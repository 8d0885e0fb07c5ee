// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordOutcome("solrCell", OutcomeProcessed)
	m.RecordOutcome("solrCell", OutcomeProcessed)
	m.RecordOutcome("solrCell", OutcomeRejected)
	m.ParserSelected("pdf", MatchExact)
	m.ObserveParse("pdf", 20*time.Millisecond)
	m.DocumentOutcome(OutcomeFailed)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"processed records", m.records.WithLabelValues("solrCell", OutcomeProcessed), 2},
		{"rejected records", m.records.WithLabelValues("solrCell", OutcomeRejected), 1},
		{"parser selections", m.parserSelections.WithLabelValues("pdf", MatchExact), 1},
		{"failed documents", m.documents.WithLabelValues(OutcomeFailed), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
	if n := testutil.CollectAndCount(m.parseDuration); n != 1 {
		t.Errorf("expected 1 parse duration series, got %d", n)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordOutcome("c", OutcomeFailed)
	m.ParserSelected("", MatchNone)
	m.ObserveParse("p", time.Second)
	m.DocumentOutcome(OutcomeProcessed)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).RecordOutcome("solrCell", OutcomeProcessed)

	srv := httptest.NewServer(NewServer("", reg).Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	want := `solrcell_records_total{command="solrCell",outcome="processed"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("expected %q in exposition:\n%s", want, body)
	}
}
