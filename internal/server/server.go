/*
Package server exposes a term dictionary as the suggest HTTP service.

One route answers per-field prefix queries; extra query parameters
narrow the search to a matching scope. Unknown fields are not an error,
they simply have no terms.
*/
package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skmtlab/hiroi/internal/logger"
	"github.com/skmtlab/hiroi/pkg/config"
	"github.com/skmtlab/hiroi/pkg/dict"
	"github.com/skmtlab/hiroi/pkg/field"
)

// SuggestResponse is the wire format of a suggest answer. Suggestions
// is always an array, empty when nothing matches.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Server answers suggest queries from a dictionary.
type Server struct {
	dict *dict.Dict
	cfg  config.ServerConfig
	log  *log.Logger
}

// New creates a suggest server. Zero-valued limits in cfg fall back to
// the builtin defaults.
func New(d *dict.Dict, cfg config.ServerConfig) *Server {
	def := config.DefaultConfig().Server
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	return &Server{
		dict: d,
		cfg:  cfg,
		log:  logger.New("suggestd"),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	if s.cfg.AccessLog {
		r.Use(s.accessLogMiddleware)
	}

	r.Get("/api/suggest/{field}", s.handleSuggest)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "field")

	query := r.URL.Query()
	limit := s.clampLimit(query.Get("limit"))
	scope := dict.ScopeFromParams(scopeParams(query))

	terms := s.dict.Search(name, scope, query.Get("q"), limit)
	if terms == nil {
		terms = []string{}
	}

	suggestRequests.WithLabelValues(metricField(name)).Inc()
	suggestDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: terms})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// clampLimit resolves the limit parameter: unparseable or non-positive
// values take the configured default, and nothing exceeds the cap.
func (s *Server) clampLimit(raw string) int {
	limit := s.cfg.DefaultLimit
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}

// scopeParams gathers the query parameters that narrow the search,
// everything beyond q and limit. Empty values are dropped.
func scopeParams(query url.Values) map[string]string {
	params := make(map[string]string)
	for key, vals := range query {
		if key == "q" || key == "limit" {
			continue
		}
		if len(vals) > 0 && vals[0] != "" {
			params[key] = vals[0]
		}
	}
	return params
}

// metricField collapses unknown field names so label cardinality stays
// bounded by the sheet's own columns.
func metricField(name string) string {
	switch field.Name(name) {
	case field.WorkType, field.MajorCategory, field.MiddleCategory,
		field.MinorCategory, field.CustomCategory, field.ItemName,
		field.Specification, field.Unit, field.MethodLabel, field.Remarks:
		return name
	}
	return "other"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
