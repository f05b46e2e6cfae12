package workplaces

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careergap/internal/gapanalysis"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const workplaceColumns = `id, user_id, name, resume_id, job_description_id, analysis_data, outcome_kind, outcome_reason, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, w Workplace) error {
	const query = `
INSERT INTO workplaces (id, user_id, name, resume_id, job_description_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		w.ID,
		w.UserID,
		w.Name,
		w.ResumeID,
		w.JobDescriptionID,
		w.CreatedAt,
		w.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Workplace, error) {
	query := `SELECT ` + workplaceColumns + ` FROM workplaces WHERE id = $1 LIMIT 1`
	return scanWorkplace(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Workplace, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + workplaceColumns + ` FROM workplaces WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Workplace{}
	for rows.Next() {
		w, err := scanWorkplace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PGRepo) SaveAnalysis(ctx context.Context, id string, o gapanalysis.Outcome, at time.Time) error {
	data, err := json.Marshal(o.Document)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	const query = `
UPDATE workplaces
SET analysis_data = $2, outcome_kind = $3, outcome_reason = $4, updated_at = $5
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, data, string(o.Kind), string(o.Reason), at)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkplace(row scanner) (Workplace, error) {
	var w Workplace
	var data []byte
	var kind, reason string
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.ResumeID, &w.JobDescriptionID, &data, &kind, &reason, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workplace{}, ErrNotFound
		}
		return Workplace{}, err
	}
	w.OutcomeKind = gapanalysis.Kind(kind)
	w.OutcomeReason = gapanalysis.Reason(reason)
	if len(data) > 0 {
		var doc gapanalysis.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Workplace{}, fmt.Errorf("decode analysis: %w", err)
		}
		w.Analysis = &doc
	}
	return w, nil
}
