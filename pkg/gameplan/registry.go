package gameplan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huddleup/gameplan/internal/utils"
	"github.com/sirupsen/logrus"
)

// copyEpoch is the date of week 1 when a copied plan's date is derived from its week.
var copyEpoch = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// Registry manages plan headers. A plan's sections live in the DataStore under
// the plan id and follow the plan on replace, copy and delete. Writes are
// serialized so a week check and the write that follows it cannot interleave
// with another writer.
type Registry struct {
	mu    sync.Mutex
	plans PlanStore
	data  DataStore
}

func NewRegistry(plans PlanStore, data DataStore) *Registry {
	return &Registry{plans: plans, data: data}
}

// GetGamePlans returns every plan ordered by week.
func (r *Registry) GetGamePlans(ctx context.Context) ([]GamePlan, error) {
	plans, err := r.plans.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Week < plans[j].Week })
	return plans, nil
}

// GetGamePlan returns one plan by id.
func (r *Registry) GetGamePlan(ctx context.Context, id string) (GamePlan, error) {
	return r.plans.GetPlan(ctx, id)
}

// PlanForWeek returns the plan holding week.
func (r *Registry) PlanForWeek(ctx context.Context, week int) (GamePlan, error) {
	return r.plans.PlanByWeek(ctx, week)
}

// AddGamePlan stores a new plan. A plan already holding the same week is
// removed together with its sections and replaced.
func (r *Registry) AddGamePlan(ctx context.Context, plan GamePlan) (GamePlan, error) {
	plan = normalizePlan(plan)
	if err := validatePlan(plan); err != nil {
		return GamePlan{}, err
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.replaceWeek(ctx, plan); err != nil {
		return GamePlan{}, err
	}
	if err := r.plans.PutPlan(ctx, plan); err != nil {
		return GamePlan{}, err
	}
	return plan, nil
}

// UpdateGamePlan overwrites an existing plan and keeps its section data header
// in step. Moving a plan onto a week held by another plan is rejected with
// ErrConflict.
func (r *Registry) UpdateGamePlan(ctx context.Context, plan GamePlan) (GamePlan, error) {
	if plan.ID == "" {
		return GamePlan{}, fmt.Errorf("plan id is required: %w", ErrInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.plans.GetPlan(ctx, plan.ID); err != nil {
		return GamePlan{}, err
	}
	plan = normalizePlan(plan)
	if err := validatePlan(plan); err != nil {
		return GamePlan{}, err
	}
	other, err := r.plans.PlanByWeek(ctx, plan.Week)
	switch {
	case err == nil && other.ID != plan.ID:
		return GamePlan{}, fmt.Errorf("week %d already belongs to plan %s: %w", plan.Week, other.ID, ErrConflict)
	case err != nil && !errors.Is(err, ErrNotFound):
		return GamePlan{}, err
	}
	if err := r.plans.PutPlan(ctx, plan); err != nil {
		return GamePlan{}, err
	}

	_, err = r.data.UpdatePlanData(ctx, plan.ID, func(data *GamePlanData) error {
		data.Week, data.Opponent, data.Date = plan.Week, plan.Opponent, plan.Date
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return GamePlan{}, err
	}
	return plan, nil
}

// DeleteGamePlan removes a plan and its sections.
func (r *Registry) DeleteGamePlan(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.plans.DeletePlan(ctx, id); err != nil {
		return err
	}
	return r.data.DeletePlanData(ctx, id)
}

// CopyGamePlan clones a plan onto a new week and opponent. The new date is
// derived from the week. Sections and plays come along with install progress
// reset.
func (r *Registry) CopyGamePlan(ctx context.Context, sourceID string, newWeek int, newOpponent string) (GamePlan, error) {
	newOpponent = strings.TrimSpace(newOpponent)
	if sourceID == "" || newWeek <= 0 || newOpponent == "" {
		return GamePlan{}, fmt.Errorf("copy needs a source, a positive week and an opponent: %w", ErrInvalid)
	}
	src, err := r.plans.GetPlan(ctx, sourceID)
	if err != nil {
		return GamePlan{}, err
	}

	cp := src
	cp.ID = uuid.NewString()
	cp.Week = newWeek
	cp.Opponent = newOpponent
	cp.Date = WeekDate(newWeek)

	r.mu.Lock()
	defer r.mu.Unlock()
	srcData, err := r.data.GetPlanData(ctx, sourceID)
	hasData := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return GamePlan{}, err
	}

	if err := r.replaceWeek(ctx, cp); err != nil {
		return GamePlan{}, err
	}
	if err := r.plans.PutPlan(ctx, cp); err != nil {
		return GamePlan{}, err
	}
	if hasData {
		data := srcData.Clone()
		data.ID = cp.ID
		data.Week = cp.Week
		data.Opponent = cp.Opponent
		data.Date = cp.Date
		for i := range data.Sections {
			data.Sections[i].InstallStatus = InstallNotStarted
		}
		if err := r.data.PutPlanData(ctx, data); err != nil {
			return GamePlan{}, err
		}
	}
	return cp, nil
}

// GetNextAvailableWeek returns the smallest week number not yet planned.
func (r *Registry) GetNextAvailableWeek(ctx context.Context) (int, error) {
	plans, err := r.plans.ListPlans(ctx)
	if err != nil {
		return 0, err
	}
	weeks := make([]int, 0, len(plans))
	for _, p := range plans {
		weeks = append(weeks, p.Week)
	}
	return NextAvailableWeek(weeks), nil
}

// NextAvailableWeek returns the smallest positive integer missing from weeks.
func NextAvailableWeek(weeks []int) int {
	used := make(map[int]bool, len(weeks))
	max := 0
	for _, w := range weeks {
		used[w] = true
		if w > max {
			max = w
		}
	}
	for w := 1; w <= max; w++ {
		if !used[w] {
			return w
		}
	}
	return max + 1
}

// WeekDate returns the game date for a week counted from the season epoch.
func WeekDate(week int) string {
	return copyEpoch.AddDate(0, 0, 7*(week-1)).Format(DateLayout)
}

func (r *Registry) replaceWeek(ctx context.Context, plan GamePlan) error {
	existing, err := r.plans.PlanByWeek(ctx, plan.Week)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == plan.ID {
		return nil
	}
	utils.Log.WithFields(logrus.Fields{
		"week":        plan.Week,
		"replaced_id": existing.ID,
		"opponent":    existing.Opponent,
	}).Warn("A game plan for this week already exists, replacing it")
	if err := r.plans.DeletePlan(ctx, existing.ID); err != nil {
		return err
	}
	return r.data.DeletePlanData(ctx, existing.ID)
}

func normalizePlan(p GamePlan) GamePlan {
	p.Opponent = strings.TrimSpace(p.Opponent)
	p.Location = strings.TrimSpace(p.Location)
	p.Date = strings.TrimSpace(p.Date)
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	return p
}

func validatePlan(p GamePlan) error {
	var missing []string
	if p.Week <= 0 {
		missing = append(missing, "week")
	}
	if p.Opponent == "" {
		missing = append(missing, "opponent")
	}
	if p.Date == "" {
		missing = append(missing, "date")
	}
	if p.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields %s: %w", strings.Join(missing, ", "), ErrInvalid)
	}
	if _, err := time.Parse(DateLayout, p.Date); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD: %w", p.Date, ErrInvalid)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown plan status %q: %w", p.Status, ErrInvalid)
	}
	return nil
}
