// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package http serves the command chain over HTTP. A document posted to
// /v1/extract runs through the chain and the records reaching its end are
// returned as JSON.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/leseb/solrcell/pkg/command"
	"github.com/leseb/solrcell/pkg/observability/logging"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/record"
)

// Handler implements the HTTP adapter
type Handler struct {
	chain  command.Command
	writer command.Writer
	logger *logging.Logger
	mux    *http.ServeMux
}

type collectorKey struct{}

// Terminal returns the command to end a chain served by a Handler with. It
// hands each output record to the request that produced it.
func Terminal() command.Command {
	return command.Func(func(ctx context.Context, rec *record.Record) error {
		if c, ok := ctx.Value(collectorKey{}).(*command.Collector); ok {
			return c.Process(ctx, rec)
		}
		return nil
	})
}

// New creates a new HTTP handler. chain must end in Terminal. When writer
// is not nil, extracted records are also written to it on request.
func New(chain command.Command, writer command.Writer, logger *logging.Logger) *Handler {
	h := &Handler{
		chain:  chain,
		writer: writer,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	// Register routes
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /v1/parsers", h.handleListParsers)
	h.mux.HandleFunc("POST /v1/extract", h.handleExtract)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Log request
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	// Serve
	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleListParsers handles GET /v1/parsers
func (h *Handler) handleListParsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data":   parser.Providers.Available(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}
