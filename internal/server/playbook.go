package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

func (s *Server) handleListPlays(w http.ResponseWriter, r *http.Request) {
	plays, err := s.Store.ListPlays(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plays)
}

func (s *Server) handleAddPlay(w http.ResponseWriter, r *http.Request) {
	var play gameplan.Play
	if err := decodeJSON(r, &play); err != nil {
		respondError(w, err)
		return
	}
	saved, err := s.Store.AddPlay(r.Context(), play)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeletePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeletePlay(r.Context(), chi.URLParam(r, "playID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
