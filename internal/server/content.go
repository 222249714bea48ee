package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/reorder"
)

// planData loads the plan named in the URL and its sections, creating the
// default sections on first access.
func (s *Server) planData(r *http.Request) (gameplan.GamePlan, gameplan.GamePlanData, error) {
	plan, err := s.Registry.GetGamePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		return gameplan.GamePlan{}, gameplan.GamePlanData{}, err
	}
	data, err := s.Content.InitializeGamePlanData(r.Context(), plan.ID, plan.Week, plan.Opponent, plan.Date)
	if err != nil {
		return gameplan.GamePlan{}, gameplan.GamePlanData{}, err
	}
	return plan, data, nil
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	_, data, err := s.planData(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleSaveData(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Registry.GetGamePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	var data gameplan.GamePlanData
	if err := decodeJSON(r, &data); err != nil {
		respondError(w, err)
		return
	}
	data.ID, data.Week, data.Opponent, data.Date = plan.ID, plan.Week, plan.Opponent, plan.Date
	if err := s.Content.SaveGamePlanData(r.Context(), data); err != nil {
		respondError(w, err)
		return
	}
	saved, err := s.Content.GetGamePlanData(r.Context(), plan.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleAddSectionPlay(w http.ResponseWriter, r *http.Request) {
	plan, _, err := s.planData(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var play gameplan.Play
	if err := decodeJSON(r, &play); err != nil {
		respondError(w, err)
		return
	}
	added, err := s.Content.AddPlayToSection(r.Context(), plan.ID, chi.URLParam(r, "sectionID"), play)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

func (s *Server) handleRemoveSectionPlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "planID")
	if err := s.Content.RemovePlayFromSection(r.Context(), id, chi.URLParam(r, "sectionID"), chi.URLParam(r, "playID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status gameplan.InstallStatus `json:"status"`
}

func (s *Server) handleSectionStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	id := chi.URLParam(r, "planID")
	if err := s.Content.UpdateSectionInstallStatus(r.Context(), id, chi.URLParam(r, "sectionID"), req.Status); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

type moveRequest struct {
	From *reorder.Position `json:"from"`
	To   *reorder.Position `json:"to"`
}

func (s *Server) handleMovePlay(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.From == nil || req.To == nil {
		respondError(w, fmt.Errorf("from and to are required: %w", gameplan.ErrInvalid))
		return
	}
	id := chi.URLParam(r, "planID")
	if err := s.Content.MovePlay(r.Context(), id, *req.From, *req.To); err != nil {
		respondError(w, err)
		return
	}
	data, err := s.Content.GetGamePlanData(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}
