// Package api exposes the catalog browse operations over HTTP and
// WebSocket. Handlers are thin: criteria in, query engine out; all state
// is the immutable record slice loaded at startup.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/assets"
	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
	"github.com/ole-nepal/epustakalaya-browser/internal/labels"
)

// Config holds the dependencies for the API server.
type Config struct {
	Records  []catalog.ContentRecord
	Report   catalog.Report
	Labels   *labels.Table
	Resolver *assets.Resolver
	Events   analytics.EventLogger
	Mode     catalog.Mode
}

// Server serves the browse API over an immutable record collection.
type Server struct {
	records  []catalog.ContentRecord
	report   catalog.Report
	labels   *labels.Table
	resolver *assets.Resolver
	events   analytics.EventLogger
	mode     catalog.Mode
}

// New creates the API server.
func New(cfg Config) *Server {
	events := cfg.Events
	if events == nil {
		events = analytics.NopEventLogger{}
	}
	lbl := cfg.Labels
	if lbl == nil {
		lbl = labels.Default()
	}
	return &Server{
		records:  cfg.Records,
		report:   cfg.Report,
		labels:   lbl,
		resolver: cfg.Resolver,
		events:   events,
		mode:     cfg.Mode,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("GET /api/contents", s.handleContents)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/labels", s.handleLabels)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/logo", s.handleLogo)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// logEvent records a browse interaction; failures are warned, never
// returned to the client.
func (s *Server) logEvent(kind string, criteria any, matched int) {
	var m map[string]any
	if data, err := json.Marshal(criteria); err == nil {
		_ = json.Unmarshal(data, &m)
	}
	if err := s.events.LogEvent(analytics.Event{Kind: kind, Criteria: m, Matched: matched}); err != nil {
		slog.Warn("logging browse event failed", "kind", kind, "error", err)
	}
}
