package server

import (
	"net/http"

	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"golang.org/x/sync/errgroup"
)

type bootstrapResponse struct {
	Plans      []gameplan.GamePlan  `json:"plans"`
	Situations []gameplan.Situation `json:"situations"`
	Plays      []gameplan.Play      `json:"plays"`
}

// handleBootstrap loads everything a client needs on start in parallel. If any
// load fails the whole response falls back to empty lists.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	var resp bootstrapResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resp.Plans, err = s.Registry.GetGamePlans(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Situations, err = s.Store.ListSituations(ctx, UserID(r.Context()))
		return err
	})
	g.Go(func() error {
		var err error
		resp.Plays, err = s.Store.ListPlays(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.Log.WithError(err).Warn("Bootstrap load failed, serving empty data")
		resp = bootstrapResponse{}
	}
	if resp.Plans == nil {
		resp.Plans = []gameplan.GamePlan{}
	}
	if resp.Situations == nil {
		resp.Situations = []gameplan.Situation{}
	}
	if resp.Plays == nil {
		resp.Plays = []gameplan.Play{}
	}
	respondJSON(w, http.StatusOK, resp)
}
