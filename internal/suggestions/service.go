package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"careergap/internal/gapanalysis"
	"careergap/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid suggestion")

// RoadmapLimit is how many unread suggestions feed a study plan.
const RoadmapLimit = 20

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

type CreateInput struct {
	UserID      string
	WorkplaceID string
	Type        Type
	Title       string
	Content     string
	Priority    Priority
}

// Create stores one user-authored suggestion. Priority defaults to medium.
func (s *Service) Create(ctx context.Context, in CreateInput) (Suggestion, error) {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if in.UserID == "" || title == "" || content == "" || !in.Type.Valid() || !in.Priority.Valid() {
		return Suggestion{}, ErrInvalidInput
	}
	item := Suggestion{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		WorkplaceID: in.WorkplaceID,
		Type:        in.Type,
		Title:       title,
		Content:     content,
		Priority:    in.Priority,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateBatch(ctx, []Suggestion{item}); err != nil {
		return Suggestion{}, err
	}
	return item, nil
}

// FromDocument turns an analysis into suggestions: one per skill gap with
// priority taken from its urgency, then recommendations (medium) and
// suggestions (low).
func FromDocument(userID, workplaceID string, doc gapanalysis.Document, at time.Time) []Suggestion {
	out := make([]Suggestion, 0, len(doc.SkillsToImprove)+len(doc.Recommendations)+len(doc.Suggestions))
	add := func(t Type, p Priority, title, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		out = append(out, Suggestion{
			ID:          uuid.NewString(),
			UserID:      userID,
			WorkplaceID: workplaceID,
			Type:        t,
			Title:       title,
			Content:     content,
			Priority:    p,
			CreatedAt:   at,
		})
	}

	for _, item := range doc.SkillsToImprove {
		content := item.Suggestion
		if strings.TrimSpace(content) == "" {
			content = fmt.Sprintf("Raise %s from %d%% to %d%%.", item.Name, item.Current, item.Target)
		}
		add(TypeSkillGap, priorityFor(item.Urgency), "Improve "+item.Name, content)
	}
	for i, r := range doc.Recommendations {
		add(TypeRecommendation, PriorityMedium, fmt.Sprintf("Recommendation %d", i+1), r)
	}
	for i, r := range doc.Suggestions {
		add(TypeSuggestion, PriorityLow, fmt.Sprintf("Suggestion %d", i+1), r)
	}
	return out
}

func priorityFor(u gapanalysis.Urgency) Priority {
	switch u {
	case gapanalysis.UrgencyHigh:
		return PriorityHigh
	case gapanalysis.UrgencyMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// RecordAnalysis replaces the suggestions previously derived for a workplace.
func (s *Service) RecordAnalysis(ctx context.Context, userID, workplaceID string, doc gapanalysis.Document) (int, error) {
	if err := s.Repo.DeleteByWorkplace(ctx, userID, workplaceID); err != nil {
		return 0, err
	}
	items := FromDocument(userID, workplaceID, doc, s.now())
	if err := s.Repo.CreateBatch(ctx, items); err != nil {
		return 0, err
	}
	telemetry.Info("suggestions.recorded", map[string]any{
		"user_id":      userID,
		"workplace_id": workplaceID,
		"count":        len(items),
	})
	return len(items), nil
}

func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Suggestion, error) {
	return s.Repo.List(ctx, userID, f)
}

// TopUnread returns up to n unread suggestions, highest priority first.
func (s *Service) TopUnread(ctx context.Context, userID string, n int) ([]Suggestion, error) {
	unread := false
	return s.Repo.List(ctx, userID, Filter{IsRead: &unread, Limit: n})
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.Repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string, t Type) (int64, error) {
	return s.Repo.MarkAllRead(ctx, userID, t)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.Repo.Stats(ctx, userID)
}
