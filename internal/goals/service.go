package goals

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"careergap/internal/roadmap"
	"careergap/internal/shared/telemetry"
	"careergap/internal/suggestions"
	"careergap/internal/workplaces"
)

var (
	ErrInvalidDuration = errors.New("duration_days must be between 1 and 90")
	ErrInvalidDate     = errors.New("dates must be formatted YYYY-MM-DD")
	ErrInvalidTask     = errors.New("task id is required")
)

type WorkplaceSource interface {
	Get(ctx context.Context, userID, id string) (workplaces.Workplace, error)
}

type SuggestionSource interface {
	TopUnread(ctx context.Context, userID string, n int) ([]suggestions.Suggestion, error)
}

// Planner is satisfied by *roadmap.Generator.
type Planner interface {
	Generate(ctx context.Context, in roadmap.Input) roadmap.Plan
}

type Service struct {
	Repo        Repo
	Workplaces  WorkplaceSource
	Suggestions SuggestionSource
	Planner     Planner
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

type CreateInput struct {
	UserID       string
	WorkplaceID  string
	DurationDays int
	StartDate    string
}

// Create generates a plan for the workplace and makes it the active goal,
// replacing the plan of any goal already active there.
func (s *Service) Create(ctx context.Context, in CreateInput) (Goal, error) {
	days := in.DurationDays
	if days == 0 {
		days = roadmap.DefaultDays
	}
	if days < roadmap.MinDays || days > roadmap.MaxDays {
		return Goal{}, ErrInvalidDuration
	}
	now := s.now()
	start := now
	if in.StartDate != "" {
		var err error
		if start, err = parseDate(in.StartDate); err != nil {
			return Goal{}, err
		}
	}

	w, err := s.Workplaces.Get(ctx, in.UserID, in.WorkplaceID)
	if err != nil {
		return Goal{}, err
	}
	input := roadmap.Input{Days: days, Start: start}
	if w.Analysis != nil {
		input.Skills = w.Analysis.SkillsToImprove
	}
	if s.Suggestions != nil {
		top, err := s.Suggestions.TopUnread(ctx, in.UserID, suggestions.RoadmapLimit)
		if err != nil {
			return Goal{}, err
		}
		for _, sg := range top {
			input.Suggestions = append(input.Suggestions, roadmap.Hint{
				Title:    sg.Title,
				Content:  sg.Content,
				Priority: string(sg.Priority),
			})
		}
	}

	plan := s.Planner.Generate(ctx, input)
	g, err := s.Repo.UpsertActive(ctx, Goal{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		WorkplaceID:  in.WorkplaceID,
		Plan:         plan,
		DurationDays: days,
		PlanSource:   plan.Source,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Goal{}, err
	}
	telemetry.Info("goal.saved", map[string]any{
		"user_id":      in.UserID,
		"workplace_id": in.WorkplaceID,
		"goal_id":      g.ID,
		"days":         days,
		"items":        len(plan.Items),
		"source":       plan.Source,
	})
	return g, nil
}

func (s *Service) Active(ctx context.Context, userID, workplaceID string) (Goal, error) {
	if _, err := s.Workplaces.Get(ctx, userID, workplaceID); err != nil {
		return Goal{}, err
	}
	return s.Repo.Active(ctx, userID, workplaceID)
}

func (s *Service) Deactivate(ctx context.Context, userID, workplaceID string) error {
	if _, err := s.Workplaces.Get(ctx, userID, workplaceID); err != nil {
		return err
	}
	return s.Repo.Deactivate(ctx, userID, workplaceID, s.now())
}

// SetTask records whether a task was completed on a date.
func (s *Service) SetTask(ctx context.Context, userID, workplaceID, taskID, date string, completed bool) (Completion, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return Completion{}, ErrInvalidTask
	}
	d, err := parseDate(date)
	if err != nil {
		return Completion{}, err
	}
	if _, err := s.Workplaces.Get(ctx, userID, workplaceID); err != nil {
		return Completion{}, err
	}
	at := s.now()
	c := Completion{TaskID: taskID, Date: d, Completed: completed}
	if err := s.Repo.SetTask(ctx, userID, workplaceID, c, at); err != nil {
		return Completion{}, err
	}
	if completed {
		c.CompletedAt = &at
	}
	return c, nil
}

// Completions lists task states between start and end (inclusive, either may be empty).
func (s *Service) Completions(ctx context.Context, userID, workplaceID, start, end string) ([]Completion, error) {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = parseDate(start); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if to, err = parseDate(end); err != nil {
			return nil, err
		}
	}
	if _, err := s.Workplaces.Get(ctx, userID, workplaceID); err != nil {
		return nil, err
	}
	return s.Repo.Completions(ctx, userID, workplaceID, from, to)
}

func (s *Service) Stats(ctx context.Context, userID, workplaceID string) (Stats, error) {
	if _, err := s.Workplaces.Get(ctx, userID, workplaceID); err != nil {
		return Stats{}, err
	}
	return s.Repo.Stats(ctx, userID, workplaceID)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(roadmap.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// newStats computes the completion rate as a percentage rounded to 2 dp.
func newStats(total, completed, days int) Stats {
	st := Stats{TotalTasks: total, CompletedTasks: completed, DaysWithTasks: days}
	if total > 0 {
		st.CompletionRate = math.Round(float64(completed)/float64(total)*10000) / 100
	}
	return st
}
