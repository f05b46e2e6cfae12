package workplaces

import (
	"context"
	"sort"
	"sync"
	"time"

	"careergap/internal/gapanalysis"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Workplace
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Workplace)}
}

func (m *MemoryRepo) Create(ctx context.Context, w Workplace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[w.ID] = w
	m.order = append(m.order, w.ID)
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id string) (Workplace, error) {
	if err := ctx.Err(); err != nil {
		return Workplace{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.byID[id]
	if !ok {
		return Workplace{}, ErrNotFound
	}
	return w, nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Workplace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []Workplace{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if w := m.byID[m.order[i]]; w.UserID == userID {
			out = append(out, w)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepo) SaveAnalysis(ctx context.Context, id string, o gapanalysis.Outcome, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	doc := o.Document
	w.Analysis = &doc
	w.OutcomeKind = o.Kind
	w.OutcomeReason = o.Reason
	w.UpdatedAt = at
	m.byID[id] = w
	return nil
}
