package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := User{ID: "u1", Email: "a@b.co", PasswordHash: "h", FirstName: "A", LastName: "B", AuthProvider: ProviderPassword, IsActive: true}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.AuthProvider, user.IsActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Create(context.Background(), user); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name", "auth_provider", "is_active", "created_at", "updated_at"}).
		AddRow("u1", "a@b.co", "h", "A", "B", "password", true, created, created)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").WithArgs("a@b.co").WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "u1" || !user.IsActive || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSessions(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	session := Session{Token: "tok", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}

	mock.ExpectExec("INSERT INTO user_sessions").
		WithArgs(session.Token, session.UserID, session.ExpiresAt, session.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM user_sessions WHERE token").WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM user_sessions WHERE expires_at").WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := repo.DeleteSession(context.Background(), "gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	n, err := repo.DeleteExpiredSessions(context.Background(), now)
	if err != nil || n != 4 {
		t.Fatalf("DeleteExpiredSessions = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
