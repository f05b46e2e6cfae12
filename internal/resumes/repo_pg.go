package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, file_key, original_text, parsed_data, created_at`

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	parsed, err := json.Marshal(res.ParsedData)
	if err != nil {
		return fmt.Errorf("encode parsed data: %w", err)
	}
	const query = `
INSERT INTO resumes (id, user_id, title, file_key, original_text, parsed_data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.Title,
		res.FileKey,
		res.OriginalText,
		parsed,
		res.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND id = $2 LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, userID, id))
}

func (r *PGRepo) Latest(ctx context.Context, userID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Resume, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1 AND id = $2`, userID, id)
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

func scanResume(row scanner) (Resume, error) {
	var res Resume
	var parsed []byte
	err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.FileKey, &res.OriginalText, &parsed, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &res.ParsedData); err != nil {
			return Resume{}, fmt.Errorf("decode parsed data: %w", err)
		}
	}
	return res, nil
}
