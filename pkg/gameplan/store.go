package gameplan

import "context"

// PlanStore persists plan headers.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]GamePlan, error)
	GetPlan(ctx context.Context, id string) (GamePlan, error)
	PlanByWeek(ctx context.Context, week int) (GamePlan, error)
	PutPlan(ctx context.Context, plan GamePlan) error
	DeletePlan(ctx context.Context, id string) error
}

// DataStore persists per-plan sections and their plays.
type DataStore interface {
	GetPlanData(ctx context.Context, id string) (GamePlanData, error)
	PutPlanData(ctx context.Context, data GamePlanData) error
	DeletePlanData(ctx context.Context, id string) error
	// UpdatePlanData loads the data stored under id, applies fn and saves the
	// result in one atomic step. An error from fn leaves the store untouched.
	UpdatePlanData(ctx context.Context, id string, fn func(*GamePlanData) error) (GamePlanData, error)
	// InitPlanData stores data unless a record already exists under data.ID and
	// returns the stored record.
	InitPlanData(ctx context.Context, data GamePlanData) (GamePlanData, error)
}
