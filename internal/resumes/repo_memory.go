package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userId -> résumés in insertion order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Resume)}
}

func (m *MemoryRepo) Create(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[r.UserID] = append(m.data[r.UserID], r)
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.data[userID] {
		if r.ID == id {
			return r, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (m *MemoryRepo) Latest(ctx context.Context, userID string) (Resume, error) {
	list, err := m.ListByUser(ctx, userID, 1)
	if err != nil {
		return Resume{}, err
	}
	if len(list) == 0 {
		return Resume{}, ErrNotFound
	}
	return list[0], nil
}

// ListByUser returns résumés newest first; limit <= 0 means no limit.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	list := make([]Resume, len(m.data[userID]))
	copy(list, m.data[userID])
	m.mu.RUnlock()

	// Stable so equal timestamps keep reverse insertion order.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
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
	for i, r := range list {
		if r.ID == id {
			m.data[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
