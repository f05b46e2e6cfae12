package workplaces

import (
	"context"
	"errors"
	"time"

	"careergap/internal/gapanalysis"
)

var ErrNotFound = errors.New("workplace not found")

// Repo persists workplaces. GetByID is not scoped to a user so callers can
// tell a missing workplace from one owned by someone else.
type Repo interface {
	Create(ctx context.Context, w Workplace) error
	GetByID(ctx context.Context, id string) (Workplace, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Workplace, error)
	SaveAnalysis(ctx context.Context, id string, o gapanalysis.Outcome, at time.Time) error
}
