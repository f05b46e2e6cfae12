package goals

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("goal not found")

// Repo persists goals and task completions.
type Repo interface {
	// UpsertActive replaces the plan of the active goal for the workplace or
	// inserts g when there is none. The stored goal is returned.
	UpsertActive(ctx context.Context, g Goal) (Goal, error)
	Active(ctx context.Context, userID, workplaceID string) (Goal, error)
	Deactivate(ctx context.Context, userID, workplaceID string, at time.Time) error

	SetTask(ctx context.Context, userID, workplaceID string, c Completion, at time.Time) error
	// Completions lists task states with dates in [from, to]; zero bounds are open.
	Completions(ctx context.Context, userID, workplaceID string, from, to time.Time) ([]Completion, error)
	Stats(ctx context.Context, userID, workplaceID string) (Stats, error)
}
