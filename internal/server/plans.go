package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.Registry.GetGamePlans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plans)
}

func (s *Server) handleAddPlan(w http.ResponseWriter, r *http.Request) {
	var plan gameplan.GamePlan
	if err := decodeJSON(r, &plan); err != nil {
		respondError(w, err)
		return
	}
	plan.ID = ""
	saved, err := s.Registry.AddGamePlan(r.Context(), plan)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleNextWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.Registry.GetNextAvailableWeek(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"week": week})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Registry.GetGamePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var plan gameplan.GamePlan
	if err := decodeJSON(r, &plan); err != nil {
		respondError(w, err)
		return
	}
	plan.ID = chi.URLParam(r, "planID")
	saved, err := s.Registry.UpdateGamePlan(r.Context(), plan)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "planID")
	if err := s.Registry.DeleteGamePlan(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type copyRequest struct {
	Week     int    `json:"week"`
	Opponent string `json:"opponent"`
}

func (s *Server) handleCopyPlan(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	plan, err := s.Registry.CopyGamePlan(r.Context(), chi.URLParam(r, "planID"), req.Week, req.Opponent)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}
