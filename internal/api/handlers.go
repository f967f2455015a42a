// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/civiclens/civiclens/internal/score"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

type statusResponse struct {
	Records  map[types.RecordKind]int         `json:"records"`
	LastRuns map[string]types.IngestionResult `json:"last_runs"`
}

type analysisResponse struct {
	Report         types.ComparisonReport      `json:"report"`
	Credibility    types.CredibilityAssessment `json:"credibility"`
	PublicInterest types.PublicInterest        `json:"publicInterest"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngestAll(w http.ResponseWriter, r *http.Request) {
	run := s.orch.RunAll(r.Context())
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleIngestSource(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("source")
	if err := s.validate.Var(sourceID, "required,max=64"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	res, err := s.orch.RunOne(r.Context(), sourceID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountsByKind(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("status query failed")
		writeError(w, http.StatusInternalServerError, "status query failed")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Records:  counts,
		LastRuns: s.orch.LastResults(),
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("articleID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "article id must be a positive integer")
		return
	}

	primary, err := s.store.ArticleByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no such article")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("article", id).Msg("article lookup failed")
		writeError(w, http.StatusInternalServerError, "article lookup failed")
		return
	}

	candidates, err := s.store.Articles(r.Context(), store.ArticleQuery{
		Since: primary.Published.Add(-s.window),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("candidate query failed")
		writeError(w, http.StatusInternalServerError, "candidate query failed")
		return
	}

	clustered := s.clusters.Build(primary, candidates)
	report, err := s.analyzer.Analyze(r.Context(), clustered)
	if err != nil {
		s.log.Error().Err(err).Int64("article", id).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		Report:         report,
		Credibility:    score.Assess(clustered, report),
		PublicInterest: score.Interest(clustered, report),
	})
}
