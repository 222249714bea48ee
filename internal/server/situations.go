package server

import (
	"fmt"
	"net/http"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

type situationsRequest struct {
	Situations []gameplan.Situation `json:"situations"`
}

type situationsResponse struct {
	Situations []gameplan.Situation `json:"situations"`
}

func (s *Server) handleGetSituations(w http.ResponseWriter, r *http.Request) {
	situations, err := s.Store.ListSituations(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, situations)
}

// handleReplaceSituations swaps the caller's whole situation list for the body.
func (s *Server) handleReplaceSituations(w http.ResponseWriter, r *http.Request) {
	var req situationsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Situations == nil {
		respondError(w, fmt.Errorf("body must contain a situations array: %w", gameplan.ErrInvalid))
		return
	}
	saved, err := s.Store.ReplaceSituations(r.Context(), UserID(r.Context()), req.Situations)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, situationsResponse{Situations: saved})
}
