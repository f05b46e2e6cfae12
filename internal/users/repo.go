package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrSessionNotFound = errors.New("session not found")
)

type Repo interface {
	// Create inserts a user; ErrEmailTaken when the email is registered.
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpsertByEmail creates the user or refreshes the names of the existing
	// user with that email, returning the stored row.
	UpsertByEmail(ctx context.Context, user User) (User, error)

	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
