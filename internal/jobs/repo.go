package jobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job description not found")

// Repo persists job descriptions scoped to their owner.
type Repo interface {
	Create(ctx context.Context, j JobDescription) error
	GetByID(ctx context.Context, userID, id string) (JobDescription, error)
	Latest(ctx context.Context, userID string) (JobDescription, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]JobDescription, error)
	Delete(ctx context.Context, userID, id string) error
}
