package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"careergap/internal/parsing"
	"careergap/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("job description text is required")

// Parser turns job-description text into structured requirements.
type Parser interface {
	ParseJobDescription(ctx context.Context, text string) parsing.JobDescription
}

type Service struct {
	Repo   Repo
	Parser Parser
	Now    func() time.Time
}

type CreateInput struct {
	UserID  string
	Title   string
	Company string
	Text    string
}

// Create parses the text and records the job description. Parse failures
// are stored in ParsedData.Error rather than rejected.
func (s *Service) Create(ctx context.Context, in CreateInput) (JobDescription, error) {
	text := strings.TrimSpace(in.Text)
	if in.UserID == "" || text == "" {
		return JobDescription{}, ErrInvalidInput
	}
	parsed := s.Parser.ParseJobDescription(ctx, text)
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	j := JobDescription{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Title:        strings.TrimSpace(in.Title),
		Company:      strings.TrimSpace(in.Company),
		OriginalText: text,
		ParsedData:   parsed,
		CreatedAt:    now().UTC(),
	}
	if err := s.Repo.Create(ctx, j); err != nil {
		return JobDescription{}, err
	}
	telemetry.Info("job.created", map[string]any{
		"user_id":     in.UserID,
		"job_id":      j.ID,
		"skills":      len(parsed.TechnicalSkills),
		"parse_error": parsed.Error,
	})
	return j, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

func (s *Service) Latest(ctx context.Context, userID string) (JobDescription, error) {
	return s.Repo.Latest(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]JobDescription, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}
