package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, user_id, title, company, original_text, parsed_data, created_at`

func (r *PGRepo) Create(ctx context.Context, j JobDescription) error {
	parsed, err := json.Marshal(j.ParsedData)
	if err != nil {
		return fmt.Errorf("encode parsed data: %w", err)
	}
	const query = `
INSERT INTO job_descriptions (id, user_id, title, company, original_text, parsed_data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.ExecContext(ctx, query, j.ID, j.UserID, j.Title, j.Company, j.OriginalText, parsed, j.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (JobDescription, error) {
	query := `SELECT ` + jobColumns + ` FROM job_descriptions WHERE user_id = $1 AND id = $2 LIMIT 1`
	return scanJob(r.DB.QueryRowContext(ctx, query, userID, id))
}

func (r *PGRepo) Latest(ctx context.Context, userID string) (JobDescription, error) {
	query := `SELECT ` + jobColumns + ` FROM job_descriptions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanJob(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]JobDescription, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + jobColumns + ` FROM job_descriptions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobDescription{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_descriptions WHERE user_id = $1 AND id = $2`, userID, id)
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

func scanJob(row interface{ Scan(dest ...any) error }) (JobDescription, error) {
	var j JobDescription
	var parsed []byte
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.OriginalText, &parsed, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobDescription{}, ErrNotFound
		}
		return JobDescription{}, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &j.ParsedData); err != nil {
			return JobDescription{}, fmt.Errorf("decode parsed data: %w", err)
		}
	}
	return j, nil
}
