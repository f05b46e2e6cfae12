package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"careergap/internal/shared/auth"
	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/telemetry"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("user account is inactive")
	ErrSessionExpired     = errors.New("session expired")
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	MinPasswordLength = 6
)

type Service struct {
	Repo       Repo
	Hasher     auth.Hasher
	SessionTTL time.Duration
	Now        func() time.Time
}

func NewService(repo Repo, hasher auth.Hasher, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{Repo: repo, Hasher: hasher, SessionTTL: sessionTTL, Now: time.Now}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password user and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, Session, error) {
	email := NormalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if email == "" || first == "" || last == "" || len(in.Password) < MinPasswordLength {
		return User{}, Session{}, ErrInvalidInput
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return User{}, Session{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		AuthProvider: ProviderPassword,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, Session{}, err
	}
	session, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return User{}, Session{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return user, session, nil
}

// Login verifies the password and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (User, Session, error) {
	user, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, Session{}, ErrInvalidCredentials
		}
		return User{}, Session{}, err
	}
	if !s.Hasher.Verify(password, user.PasswordHash) {
		return User{}, Session{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return User{}, Session{}, ErrInactive
	}
	session, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return User{}, Session{}, err
	}
	return user, session, nil
}

// UpsertExternal signs in a user authenticated by an identity provider,
// creating the account on first sign-in.
func (s *Service) UpsertExternal(ctx context.Context, email, firstName, lastName, provider string) (User, Session, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, Session{}, ErrInvalidInput
	}
	user, err := s.Repo.UpsertByEmail(ctx, User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		AuthProvider: provider,
		IsActive:     true,
	})
	if err != nil {
		return User{}, Session{}, err
	}
	if !user.IsActive {
		return User{}, Session{}, ErrInactive
	}
	session, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return User{}, Session{}, err
	}
	return user, session, nil
}

func (s *Service) IssueSession(ctx context.Context, userID string) (Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	session := Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
	}
	if err := s.Repo.CreateSession(ctx, session); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrSessionNotFound
	}
	return s.Repo.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its active user. Expired
// sessions are deleted.
func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	session, err := s.Repo.GetSession(ctx, token)
	if err != nil {
		return User{}, err
	}
	if !s.now().Before(session.ExpiresAt) {
		if err := s.Repo.DeleteSession(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
			telemetry.Warn("session.expire_failed", map[string]any{"error": err})
		}
		return User{}, ErrSessionExpired
	}
	user, err := s.Repo.GetByID(ctx, session.UserID)
	if err != nil {
		return User{}, err
	}
	if !user.IsActive {
		return User{}, ErrInactive
	}
	return user, nil
}

// ValidateSession implements middleware.SessionValidator.
func (s *Service) ValidateSession(ctx context.Context, token string) (middleware.Identity, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{UserID: user.ID, Email: user.Email, Name: user.FullName()}, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID)
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpiredSessions(ctx, s.now())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
