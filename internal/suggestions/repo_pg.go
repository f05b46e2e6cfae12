package suggestions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

const priorityOrder = `CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END`

// CreateBatch inserts all items in one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, items []Suggestion) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO ai_suggestions (id, user_id, workplace_id, suggestion_type, title, content, priority, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, s := range items {
		if _, err := tx.ExecContext(ctx, query,
			s.ID,
			s.UserID,
			nullableString(s.WorkplaceID),
			string(s.Type),
			s.Title,
			s.Content,
			string(s.Priority),
			s.IsRead,
			s.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert suggestion: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PGRepo) List(ctx context.Context, userID string, f Filter) ([]Suggestion, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, workplace_id, suggestion_type, title, content, priority, is_read, created_at
FROM ai_suggestions
WHERE user_id = $1`)
	args := []any{userID}
	if f.Type != "" {
		args = append(args, string(f.Type))
		fmt.Fprintf(&b, " AND suggestion_type = $%d", len(args))
	}
	if f.IsRead != nil {
		args = append(args, *f.IsRead)
		fmt.Fprintf(&b, " AND is_read = $%d", len(args))
	}
	b.WriteString(" ORDER BY " + priorityOrder + ", created_at DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Suggestion{}
	for rows.Next() {
		var s Suggestion
		var workplaceID sql.NullString
		var typ, priority string
		if err := rows.Scan(&s.ID, &s.UserID, &workplaceID, &typ, &s.Title, &s.Content, &priority, &s.IsRead, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.WorkplaceID = workplaceID.String
		s.Type = Type(typ)
		s.Priority = Priority(priority)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkRead(ctx context.Context, userID, id string) error {
	return r.execOne(ctx, `UPDATE ai_suggestions SET is_read = TRUE WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *PGRepo) MarkAllRead(ctx context.Context, userID string, t Type) (int64, error) {
	query := `UPDATE ai_suggestions SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	args := []any{userID}
	if t != "" {
		query += ` AND suggestion_type = $2`
		args = append(args, string(t))
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	return r.execOne(ctx, `DELETE FROM ai_suggestions WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *PGRepo) DeleteByWorkplace(ctx context.Context, userID, workplaceID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM ai_suggestions WHERE user_id = $1 AND workplace_id = $2`, userID, workplaceID)
	return err
}

func (r *PGRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	const query = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE NOT is_read),
  COUNT(*) FILTER (WHERE NOT is_read AND priority = 'high')
FROM ai_suggestions
WHERE user_id = $1`
	var st Stats
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&st.Total, &st.Unread, &st.HighPriorityUnread)
	return st, err
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
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

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
