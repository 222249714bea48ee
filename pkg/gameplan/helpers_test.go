package gameplan_test

import (
	"context"
	"testing"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/storage"
)

func newServices() (*gameplan.Registry, *gameplan.Content, *storage.MemStore) {
	store := storage.NewMemStore()
	return gameplan.NewRegistry(store, store), gameplan.NewContent(store), store
}

func mkPlan(week int, opponent string) gameplan.GamePlan {
	return gameplan.GamePlan{
		Week:     week,
		Opponent: opponent,
		Date:     gameplan.WeekDate(week),
		Location: "Home",
	}
}

func mustAdd(t *testing.T, r *gameplan.Registry, p gameplan.GamePlan) gameplan.GamePlan {
	t.Helper()
	saved, err := r.AddGamePlan(context.Background(), p)
	if err != nil {
		t.Fatalf("AddGamePlan(%d, %s): %v", p.Week, p.Opponent, err)
	}
	return saved
}
