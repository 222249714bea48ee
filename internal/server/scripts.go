package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Registry.GetGamePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	scripts, err := s.Store.ListScripts(r.Context(), plan.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scripts)
}

func (s *Server) handleAddScript(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Registry.GetGamePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	var script gameplan.PlayScript
	if err := decodeJSON(r, &script); err != nil {
		respondError(w, err)
		return
	}
	script.ID = ""
	script.PlanID = plan.ID
	saved, err := s.Store.PutScript(r.Context(), script)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// planScript loads the script named in the URL, refusing scripts of other plans.
func (s *Server) planScript(r *http.Request) (gameplan.PlayScript, error) {
	planID, scriptID := chi.URLParam(r, "planID"), chi.URLParam(r, "scriptID")
	script, err := s.Store.GetScript(r.Context(), scriptID)
	if err != nil {
		return gameplan.PlayScript{}, err
	}
	if script.PlanID != planID {
		return gameplan.PlayScript{}, fmt.Errorf("script %s in plan %s: %w", scriptID, planID, gameplan.ErrNotFound)
	}
	return script, nil
}

type scriptResponse struct {
	gameplan.PlayScript
	Resolved []gameplan.Play `json:"resolved"`
}

func (s *Server) handleGetScript(w http.ResponseWriter, r *http.Request) {
	script, err := s.planScript(r)
	if err != nil {
		respondError(w, err)
		return
	}
	plays, err := s.Store.ResolveScript(r.Context(), script)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scriptResponse{PlayScript: script, Resolved: plays})
}

func (s *Server) handleDeleteScript(w http.ResponseWriter, r *http.Request) {
	script, err := s.planScript(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.Store.DeleteScript(r.Context(), script.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type scriptMoveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleMoveScriptPlay(w http.ResponseWriter, r *http.Request) {
	script, err := s.planScript(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req scriptMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	saved, err := s.Store.ReorderScript(r.Context(), script.ID, req.From, req.To)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
