// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics defines the Prometheus collectors of the extraction
// pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Parser match kinds.
const (
	MatchExact    = "exact"
	MatchWildcard = "wildcard"
	MatchNone     = "none"
)

// Metrics holds the collectors.
type Metrics struct {
	records          *prometheus.CounterVec
	parserSelections *prometheus.CounterVec
	parseDuration    *prometheus.HistogramVec
	documents        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solrcell",
			Name:      "records_total",
			Help:      "Records handled by a command, by outcome.",
		}, []string{"command", "outcome"}),
		parserSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solrcell",
			Name:      "parser_selections_total",
			Help:      "Parser lookups by selected parser and match kind.",
		}, []string{"parser", "match"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solrcell",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one attachment.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"parser"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solrcell",
			Name:      "ingest_documents_total",
			Help:      "Source documents fed into the pipeline, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.records, m.parserSelections, m.parseDuration, m.documents)
	return m
}

// RecordOutcome counts one record handled by command.
func (m *Metrics) RecordOutcome(command, outcome string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(command, outcome).Inc()
}

// ParserSelected counts one parser lookup. parser is empty for misses.
func (m *Metrics) ParserSelected(parser, match string) {
	if m == nil {
		return
	}
	m.parserSelections.WithLabelValues(parser, match).Inc()
}

// ObserveParse records how long a parse took.
func (m *Metrics) ObserveParse(parser string, d time.Duration) {
	if m == nil {
		return
	}
	m.parseDuration.WithLabelValues(parser).Observe(d.Seconds())
}

// DocumentOutcome counts one source document.
func (m *Metrics) DocumentOutcome(outcome string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
}

// Handler serves the registry's metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NewServer returns an HTTP server exposing /metrics on addr.
func NewServer(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
