package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"careergap/internal/gapanalysis"
	"careergap/internal/roadmap"
	"careergap/internal/suggestions"
	"careergap/internal/workplaces"
)

type stubWorkplaces struct {
	byID map[string]workplaces.Workplace
}

func (s stubWorkplaces) Get(ctx context.Context, userID, id string) (workplaces.Workplace, error) {
	w, ok := s.byID[id]
	if !ok {
		return workplaces.Workplace{}, workplaces.ErrNotFound
	}
	if w.UserID != userID {
		return workplaces.Workplace{}, workplaces.ErrForbidden
	}
	return w, nil
}

type stubSuggestions struct {
	items []suggestions.Suggestion
	asked int
}

func (s *stubSuggestions) TopUnread(ctx context.Context, userID string, n int) ([]suggestions.Suggestion, error) {
	s.asked = n
	return s.items, nil
}

type recordingPlanner struct {
	inputs []roadmap.Input
}

func (p *recordingPlanner) Generate(ctx context.Context, in roadmap.Input) roadmap.Plan {
	p.inputs = append(p.inputs, in)
	return roadmap.Fallback(in)
}

var fixedNow = time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *recordingPlanner, *stubSuggestions) {
	doc := gapanalysis.Document{SkillsToImprove: []gapanalysis.SkillGapItem{
		{Name: "Rust", Current: 25, Target: 80, Urgency: gapanalysis.UrgencyHigh},
	}}
	planner := &recordingPlanner{}
	sugg := &stubSuggestions{items: []suggestions.Suggestion{
		{Title: "Improve Rust", Content: "Read the book.", Priority: suggestions.PriorityHigh},
	}}
	svc := &Service{
		Repo: NewMemoryRepo(),
		Workplaces: stubWorkplaces{byID: map[string]workplaces.Workplace{
			"w1": {ID: "w1", UserID: "u1", Analysis: &doc},
			"w2": {ID: "w2", UserID: "u2"},
		}},
		Suggestions: sugg,
		Planner:     planner,
		Now:         func() time.Time { return fixedNow },
	}
	return svc, planner, sugg
}

func TestCreateBuildsPlanFromWorkplaceAndSuggestions(t *testing.T) {
	svc, planner, sugg := newTestService()

	g, err := svc.Create(context.Background(), CreateInput{UserID: "u1", WorkplaceID: "w1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.DurationDays != roadmap.DefaultDays || len(g.Plan.Items) != roadmap.DefaultDays || !g.IsActive {
		t.Fatalf("unexpected goal: days=%d items=%d active=%v", g.DurationDays, len(g.Plan.Items), g.IsActive)
	}
	if g.PlanSource != roadmap.SourceFallback {
		t.Fatalf("expected plan source recorded, got %q", g.PlanSource)
	}
	if sugg.asked != suggestions.RoadmapLimit {
		t.Fatalf("expected top %d suggestions requested, got %d", suggestions.RoadmapLimit, sugg.asked)
	}
	in := planner.inputs[0]
	if len(in.Skills) != 1 || len(in.Suggestions) != 1 || in.Suggestions[0].Priority != "high" {
		t.Fatalf("unexpected planner input: %+v", in)
	}
	if first, _ := g.Plan.Dates(); first != "2026-06-10" {
		t.Fatalf("expected plan to start today, got %s", first)
	}
}

func TestCreateReplacesActiveGoal(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{UserID: "u1", WorkplaceID: "w1", DurationDays: 3})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Create(ctx, CreateInput{UserID: "u1", WorkplaceID: "w1", DurationDays: 5, StartDate: "2026-07-01"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the active goal to be updated in place")
	}
	active, err := svc.Active(ctx, "u1", "w1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.DurationDays != 5 || len(active.Plan.Items) != 5 || active.Plan.Items[0].Date != "2026-07-01" {
		t.Fatalf("unexpected active goal: %+v", active)
	}

	if err := svc.Deactivate(ctx, "u1", "w1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Active(ctx, "u1", "w1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after deactivate, got %v", err)
	}
	third, err := svc.Create(ctx, CreateInput{UserID: "u1", WorkplaceID: "w1"})
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("expected a new goal after deactivation")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	cases := []struct {
		in   CreateInput
		want error
	}{
		{CreateInput{UserID: "u1", WorkplaceID: "w1", DurationDays: 91}, ErrInvalidDuration},
		{CreateInput{UserID: "u1", WorkplaceID: "w1", DurationDays: -1}, ErrInvalidDuration},
		{CreateInput{UserID: "u1", WorkplaceID: "w1", StartDate: "01/07/2026"}, ErrInvalidDate},
		{CreateInput{UserID: "u1", WorkplaceID: "missing"}, workplaces.ErrNotFound},
		{CreateInput{UserID: "u1", WorkplaceID: "w2"}, workplaces.ErrForbidden},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.in, tc.want, err)
		}
	}
}

func TestTaskCompletionsAndStats(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mark := func(task, date string, done bool) {
		t.Helper()
		if _, err := svc.SetTask(ctx, "u1", "w1", task, date, done); err != nil {
			t.Fatalf("set %s %s: %v", task, date, err)
		}
	}
	mark("day-01", "2026-06-10", true)
	mark("day-02", "2026-06-11", true)
	mark("day-02", "2026-06-11", false)
	mark("day-03", "2026-06-12", true)

	st, err := svc.Stats(ctx, "u1", "w1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st != (Stats{TotalTasks: 3, CompletedTasks: 2, CompletionRate: 66.67, DaysWithTasks: 3}) {
		t.Fatalf("unexpected stats: %+v", st)
	}

	list, err := svc.Completions(ctx, "u1", "w1", "2026-06-11", "2026-06-12")
	if err != nil {
		t.Fatalf("completions: %v", err)
	}
	byDate := ByDate(list)
	if len(byDate) != 2 || byDate["2026-06-11"]["day-02"] || !byDate["2026-06-12"]["day-03"] {
		t.Fatalf("unexpected completions: %+v", byDate)
	}
	if list[1].CompletedAt == nil || list[0].CompletedAt != nil {
		t.Fatalf("completedAt should follow the completed flag: %+v", list)
	}

	if _, err := svc.SetTask(ctx, "u1", "w1", " ", "2026-06-10", true); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if _, err := svc.SetTask(ctx, "u1", "w1", "day-01", "June 10", true); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.SetTask(ctx, "u1", "w2", "day-01", "2026-06-10", true); !errors.Is(err, workplaces.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNewStatsRounding(t *testing.T) {
	if got := newStats(0, 0, 0).CompletionRate; got != 0 {
		t.Fatalf("expected 0 rate for no tasks, got %v", got)
	}
	if got := newStats(3, 1, 1).CompletionRate; got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := newStats(8, 8, 2).CompletionRate; got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}
