package goals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const goalColumns = `id, user_id, workplace_id, goal_data, duration_days, plan_source, is_active, created_at, updated_at`

func (r *PGRepo) UpsertActive(ctx context.Context, g Goal) (Goal, error) {
	data, err := json.Marshal(g.Plan)
	if err != nil {
		return Goal{}, fmt.Errorf("encode plan: %w", err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Goal{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM goals WHERE user_id = $1 AND workplace_id = $2 AND is_active FOR UPDATE`,
		g.UserID, g.WorkplaceID,
	).Scan(&existingID, &createdAt)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, `
UPDATE goals
SET goal_data = $2, duration_days = $3, plan_source = $4, updated_at = $5
WHERE id = $1`, existingID, data, g.DurationDays, g.PlanSource, g.UpdatedAt)
		if err != nil {
			return Goal{}, err
		}
		g.ID = existingID
		g.CreatedAt = createdAt
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
INSERT INTO goals (id, user_id, workplace_id, goal_data, duration_days, plan_source, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)`,
			g.ID, g.UserID, g.WorkplaceID, data, g.DurationDays, g.PlanSource, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return Goal{}, err
		}
	default:
		return Goal{}, err
	}
	if err := tx.Commit(); err != nil {
		return Goal{}, err
	}
	g.IsActive = true
	return g, nil
}

func (r *PGRepo) Active(ctx context.Context, userID, workplaceID string) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 AND workplace_id = $2 AND is_active ORDER BY created_at DESC LIMIT 1`
	var g Goal
	var data []byte
	err := r.DB.QueryRowContext(ctx, query, userID, workplaceID).
		Scan(&g.ID, &g.UserID, &g.WorkplaceID, &data, &g.DurationDays, &g.PlanSource, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Goal{}, ErrNotFound
		}
		return Goal{}, err
	}
	if err := json.Unmarshal(data, &g.Plan); err != nil {
		return Goal{}, fmt.Errorf("decode plan: %w", err)
	}
	return g, nil
}

func (r *PGRepo) Deactivate(ctx context.Context, userID, workplaceID string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE goals SET is_active = FALSE, updated_at = $3 WHERE user_id = $1 AND workplace_id = $2 AND is_active`,
		userID, workplaceID, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetTask(ctx context.Context, userID, workplaceID string, c Completion, at time.Time) error {
	var completedAt any
	if c.Completed {
		completedAt = at
	}
	const query = `
INSERT INTO task_completions (user_id, workplace_id, task_id, task_date, is_completed, completed_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, workplace_id, task_id, task_date)
DO UPDATE SET is_completed = EXCLUDED.is_completed, completed_at = EXCLUDED.completed_at, updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, userID, workplaceID, c.TaskID, dateKey(c.Date), c.Completed, completedAt, at)
	return err
}

func (r *PGRepo) Completions(ctx context.Context, userID, workplaceID string, from, to time.Time) ([]Completion, error) {
	var b strings.Builder
	b.WriteString(`SELECT task_id, task_date, is_completed, completed_at FROM task_completions WHERE user_id = $1 AND workplace_id = $2`)
	args := []any{userID, workplaceID}
	if !from.IsZero() {
		args = append(args, dateKey(from))
		fmt.Fprintf(&b, " AND task_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, dateKey(to))
		fmt.Fprintf(&b, " AND task_date <= $%d", len(args))
	}
	b.WriteString(" ORDER BY task_date, task_id")

	rows, err := r.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Completion{}
	for rows.Next() {
		var c Completion
		var completedAt sql.NullTime
		if err := rows.Scan(&c.TaskID, &c.Date, &c.Completed, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			c.CompletedAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Stats(ctx context.Context, userID, workplaceID string) (Stats, error) {
	const query = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE is_completed),
  COUNT(DISTINCT task_date)
FROM task_completions
WHERE user_id = $1 AND workplace_id = $2`
	var total, completed, days int
	if err := r.DB.QueryRowContext(ctx, query, userID, workplaceID).Scan(&total, &completed, &days); err != nil {
		return Stats{}, err
	}
	return newStats(total, completed, days), nil
}
