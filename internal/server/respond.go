package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.Log.WithError(err).Error("encoding response")
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondError maps store errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gameplan.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, gameplan.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gameplan.ErrConflict):
		status = http.StatusConflict
	default:
		utils.Log.WithError(err).Error("request failed")
	}
	respondMessage(w, status, err.Error())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, gameplan.ErrInvalid)
	}
	return nil
}
