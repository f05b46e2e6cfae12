package goals

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"careergap/internal/roadmap"
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

func TestPGRepoUpsertActiveUpdatesExisting(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, created_at FROM goals WHERE user_id = \\$1 AND workplace_id = \\$2 AND is_active FOR UPDATE").
		WithArgs("u1", "w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("g-old", created))
	mock.ExpectExec("UPDATE goals SET goal_data").
		WithArgs("g-old", sqlmock.AnyArg(), 7, roadmap.SourceModel, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	g, err := repo.UpsertActive(context.Background(), Goal{
		ID: "g-new", UserID: "u1", WorkplaceID: "w1", DurationDays: 7,
		PlanSource: roadmap.SourceModel, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpsertActive: %v", err)
	}
	if g.ID != "g-old" || !g.CreatedAt.Equal(created) || !g.IsActive {
		t.Fatalf("unexpected goal: %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetTaskUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO task_completions (.+) ON CONFLICT").
		WithArgs("u1", "w1", "day-01", "2026-01-05", false, nil, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetTask(context.Background(), "u1", "w1", Completion{TaskID: "day-01", Date: day}, at); err != nil {
		t.Fatalf("SetTask: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoStats(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM task_completions").
		WithArgs("u1", "w1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "days"}).AddRow(4, 1, 2))

	st, err := repo.Stats(context.Background(), "u1", "w1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st != (Stats{TotalTasks: 4, CompletedTasks: 1, CompletionRate: 25, DaysWithTasks: 2}) {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
