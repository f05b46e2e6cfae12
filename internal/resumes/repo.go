package resumes

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("resume not found")

// Repo persists résumés. Every lookup is scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, userID, id string) (Resume, error)
	Latest(ctx context.Context, userID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Resume, error)
	Delete(ctx context.Context, userID, id string) error
}
