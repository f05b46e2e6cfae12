package goals

import (
	"context"
	"sort"
	"sync"
	"time"
)

type taskKey struct {
	userID, workplaceID, taskID, date string
}

type MemoryRepo struct {
	mu    sync.RWMutex
	goals []Goal
	tasks map[taskKey]Completion
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: make(map[taskKey]Completion)}
}

func (m *MemoryRepo) UpsertActive(ctx context.Context, g Goal) (Goal, error) {
	if err := ctx.Err(); err != nil {
		return Goal{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.goals {
		if existing.IsActive && existing.UserID == g.UserID && existing.WorkplaceID == g.WorkplaceID {
			existing.Plan = g.Plan
			existing.DurationDays = g.DurationDays
			existing.PlanSource = g.PlanSource
			existing.UpdatedAt = g.UpdatedAt
			m.goals[i] = existing
			return existing, nil
		}
	}
	g.IsActive = true
	m.goals = append(m.goals, g)
	return g, nil
}

func (m *MemoryRepo) Active(ctx context.Context, userID, workplaceID string) (Goal, error) {
	if err := ctx.Err(); err != nil {
		return Goal{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.goals {
		if g.IsActive && g.UserID == userID && g.WorkplaceID == workplaceID {
			return g, nil
		}
	}
	return Goal{}, ErrNotFound
}

func (m *MemoryRepo) Deactivate(ctx context.Context, userID, workplaceID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals {
		if g.IsActive && g.UserID == userID && g.WorkplaceID == workplaceID {
			m.goals[i].IsActive = false
			m.goals[i].UpdatedAt = at
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepo) SetTask(ctx context.Context, userID, workplaceID string, c Completion, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.CompletedAt = nil
	if c.Completed {
		done := at
		c.CompletedAt = &done
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[taskKey{userID, workplaceID, c.TaskID, dateKey(c.Date)}] = c
	return nil
}

func (m *MemoryRepo) Completions(ctx context.Context, userID, workplaceID string, from, to time.Time) ([]Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []Completion{}
	for k, c := range m.tasks {
		if k.userID != userID || k.workplaceID != workplaceID {
			continue
		}
		if !from.IsZero() && k.date < dateKey(from) {
			continue
		}
		if !to.IsZero() && k.date > dateKey(to) {
			continue
		}
		out = append(out, c)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if di, dj := dateKey(out[i].Date), dateKey(out[j].Date); di != dj {
			return di < dj
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}

func (m *MemoryRepo) Stats(ctx context.Context, userID, workplaceID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total, completed int
	days := make(map[string]struct{})
	for k, c := range m.tasks {
		if k.userID != userID || k.workplaceID != workplaceID {
			continue
		}
		total++
		if c.Completed {
			completed++
		}
		days[k.date] = struct{}{}
	}
	return newStats(total, completed, len(days)), nil
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
