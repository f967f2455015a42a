// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the HTTP trigger surface: ingestion runs, ingestion
// status, and on-demand cross-source analysis of a stored article.
package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/civiclens/civiclens/internal/analysis"
	"github.com/civiclens/civiclens/internal/cluster"
	"github.com/civiclens/civiclens/internal/ingest"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

// Server wires the orchestrator, store, and analysis pipeline behind the
// HTTP handlers.
type Server struct {
	orch     *ingest.Orchestrator
	store    *store.Store
	analyzer *analysis.Analyzer
	clusters *cluster.Builder
	window   time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// NewServer builds a Server from already-constructed collaborators.
func NewServer(orch *ingest.Orchestrator, st *store.Store, an *analysis.Analyzer, clusterCfg types.ClusterConfig, log zerolog.Logger) *Server {
	return &Server{
		orch:     orch,
		store:    st,
		analyzer: an,
		clusters: cluster.NewBuilder(clusterCfg),
		window:   clusterCfg.RecencyWindow,
		validate: validator.New(),
		log:      log,
	}
}

// Router returns the request-logged handler tree. Literal routes win over
// the {source} wildcard, so /ingest/all and /ingest/status never reach the
// single-source handler.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/healthz", http.HandlerFunc(s.handleHealthz))
	mux.Handle("/ingest/all", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(s.handleIngestAll),
	}))
	mux.Handle("/ingest/status", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(s.handleIngestStatus),
	}))
	mux.Handle("/ingest/{source}", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(s.handleIngestSource),
	}))
	mux.Handle("/analysis/{articleID}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(s.handleAnalysis),
	}))

	return requestLogger(s.log, mux)
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for m := range handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
