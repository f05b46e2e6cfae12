package jobs

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]JobDescription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]JobDescription)}
}

func (m *MemoryRepo) Create(ctx context.Context, j JobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[j.UserID] = append(m.data[j.UserID], j)
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, userID, id string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, j := range m.data[userID] {
		if j.ID == id {
			return j, nil
		}
	}
	return JobDescription{}, ErrNotFound
}

func (m *MemoryRepo) Latest(ctx context.Context, userID string) (JobDescription, error) {
	list, err := m.ListByUser(ctx, userID, 1)
	if err != nil {
		return JobDescription{}, err
	}
	if len(list) == 0 {
		return JobDescription{}, ErrNotFound
	}
	return list[0], nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	src := m.data[userID]
	list := make([]JobDescription, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		list = append(list, src[i])
	}
	m.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.data[userID]
	for i, j := range list {
		if j.ID == id {
			m.data[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
