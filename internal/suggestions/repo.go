package suggestions

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("suggestion not found")

// Repo persists suggestions. Listings are ordered high→medium→low priority,
// newest first within a priority.
type Repo interface {
	CreateBatch(ctx context.Context, items []Suggestion) error
	List(ctx context.Context, userID string, f Filter) ([]Suggestion, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string, t Type) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByWorkplace(ctx context.Context, userID, workplaceID string) error
	Stats(ctx context.Context, userID string) (Stats, error)
}
