package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/derive"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

const (
	callSheetKey = "callsheet:"
	practiceKey  = "practice:"
)

func (s *Server) handleCallSheet(w http.ResponseWriter, r *http.Request) {
	s.serveDerived(w, r, callSheetKey, func(data gameplan.GamePlanData) interface{} {
		return derive.GenerateCallSheet(data)
	})
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	s.serveDerived(w, r, practiceKey, func(data gameplan.GamePlanData) interface{} {
		return derive.GeneratePracticePeriods(data)
	})
}

// serveDerived answers from the cache when it can and otherwise builds the view
// from the plan's sections. Entries are keyed by the data version, so any write
// to the sections, whichever process made it, moves readers to a fresh key.
// Cache failures are logged and never fail the request.
func (s *Server) serveDerived(w http.ResponseWriter, r *http.Request, prefix string, build func(gameplan.GamePlanData) interface{}) {
	id := chi.URLParam(r, "planID")

	version, err := s.Store.PlanDataVersion(r.Context(), id)
	switch {
	case err == nil:
		key := derivedKey(prefix, id, version)
		cached, ok, err := s.Cache.Get(r.Context(), key)
		if err != nil {
			utils.Log.WithError(err).Warnf("cache read %s", key)
		}
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	case !errors.Is(err, gameplan.ErrNotFound):
		respondError(w, err)
		return
	}

	_, data, err := s.planData(r)
	if err != nil {
		respondError(w, err)
		return
	}
	view := build(data)
	body, err := json.Marshal(view)
	if err != nil {
		respondError(w, err)
		return
	}
	key := derivedKey(prefix, id, data.Version)
	if err := s.Cache.Set(r.Context(), key, body, s.CacheTTL); err != nil {
		utils.Log.WithError(err).Warnf("cache write %s", key)
	}
	w.Header().Set("X-Cache", "miss")
	respondJSON(w, http.StatusOK, view)
}

func derivedKey(prefix, id string, version int64) string {
	return prefix + id + ":" + strconv.FormatInt(version, 10)
}
