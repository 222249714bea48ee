package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

// MemStore keeps plans and plan data in process memory. Values are copied in
// and out so callers never share slices with the store.
type MemStore struct {
	mu    sync.RWMutex
	plans map[string]gameplan.GamePlan
	data  map[string]gameplan.GamePlanData
	seq   int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		plans: make(map[string]gameplan.GamePlan),
		data:  make(map[string]gameplan.GamePlanData),
	}
}

func (m *MemStore) ListPlans(_ context.Context) ([]gameplan.GamePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gameplan.GamePlan, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p)
	}
	return out, nil
}

func (m *MemStore) GetPlan(_ context.Context, id string) (gameplan.GamePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return gameplan.GamePlan{}, fmt.Errorf("game plan %s: %w", id, gameplan.ErrNotFound)
	}
	return p, nil
}

func (m *MemStore) PlanByWeek(_ context.Context, week int) (gameplan.GamePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.Week == week {
			return p, nil
		}
	}
	return gameplan.GamePlan{}, fmt.Errorf("game plan for week %d: %w", week, gameplan.ErrNotFound)
}

func (m *MemStore) PutPlan(_ context.Context, plan gameplan.GamePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.plans {
		if p.Week == plan.Week && id != plan.ID {
			return fmt.Errorf("week %d is held by plan %s: %w", plan.Week, id, gameplan.ErrConflict)
		}
	}
	m.plans[plan.ID] = plan
	return nil
}

func (m *MemStore) DeletePlan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return fmt.Errorf("game plan %s: %w", id, gameplan.ErrNotFound)
	}
	delete(m.plans, id)
	return nil
}

func (m *MemStore) GetPlanData(_ context.Context, id string) (gameplan.GamePlanData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[id]
	if !ok {
		return gameplan.GamePlanData{}, fmt.Errorf("game plan data %s: %w", id, gameplan.ErrNotFound)
	}
	return d.Clone(), nil
}

func (m *MemStore) PutPlanData(_ context.Context, data gameplan.GamePlanData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putData(data)
	return nil
}

func (m *MemStore) UpdatePlanData(_ context.Context, id string, fn func(*gameplan.GamePlanData) error) (gameplan.GamePlanData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[id]
	if !ok {
		return gameplan.GamePlanData{}, fmt.Errorf("game plan data %s: %w", id, gameplan.ErrNotFound)
	}
	d = d.Clone()
	if err := fn(&d); err != nil {
		return gameplan.GamePlanData{}, err
	}
	d.ID = id
	return m.putData(d), nil
}

func (m *MemStore) InitPlanData(_ context.Context, data gameplan.GamePlanData) (gameplan.GamePlanData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.data[data.ID]; ok {
		return d.Clone(), nil
	}
	return m.putData(data), nil
}

// PlanDataVersion returns the version of the data stored under id.
func (m *MemStore) PlanDataVersion(_ context.Context, id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[id]
	if !ok {
		return 0, fmt.Errorf("game plan data %s: %w", id, gameplan.ErrNotFound)
	}
	return d.Version, nil
}

// putData stores a copy of data under a fresh version. Callers hold mu.
func (m *MemStore) putData(data gameplan.GamePlanData) gameplan.GamePlanData {
	m.seq++
	data = data.Clone()
	data.Version = m.seq
	m.data[data.ID] = data
	return data.Clone()
}

// DeletePlanData is a no-op for unknown ids.
func (m *MemStore) DeletePlanData(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}
