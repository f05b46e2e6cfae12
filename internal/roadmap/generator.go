package roadmap

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"careergap/internal/gapanalysis"
	"careergap/internal/llm"
	"careergap/internal/records"
	"careergap/internal/shared/metrics"
	"careergap/internal/shared/telemetry"
)

const (
	maxTokens   = 3000
	temperature = 0.5

	// MaxPromptChars is the combined system+user prompt length above which
	// the prompt is rebuilt in compact form.
	MaxPromptChars = 15000

	minimalSuggestions = "Focus on the listed skill gaps, starting with the highest priority."
	noSuggestions      = "No specific suggestions provided."
)

// Hint is an open suggestion fed into the prompt.
type Hint struct {
	Title    string
	Content  string
	Priority string
}

// Input describes the plan to build.
type Input struct {
	Days        int
	Start       time.Time
	Skills      []gapanalysis.SkillGapItem
	Suggestions []Hint
}

// Generator asks a model for a plan and falls back to Fallback on any error.
type Generator struct {
	Completer  llm.Completer
	Templates  *llm.Templates
	Model      string
	Normalizer llm.Normalizer
}

func NewGenerator(c llm.Completer, templates *llm.Templates, model string) *Generator {
	if c == nil {
		c = llm.Unavailable{}
	}
	return &Generator{
		Completer: c,
		Templates: templates,
		Model:     strings.TrimSpace(model),
		Normalizer: llm.Normalizer{
			EnvelopeKeys: []string{"roadmap", "study_plan", "data"},
			Expect:       llm.HasKeys("plan"),
		},
	}
}

// Generate never fails. Plan.Source reports which path produced the plan.
func (g *Generator) Generate(ctx context.Context, in Input) Plan {
	in.Days = ClampDays(in.Days)
	in.Start = startOf(in.Start)

	items, err := g.fromModel(ctx, in)
	if err != nil {
		telemetry.Warn("roadmap.fallback", map[string]any{"days": in.Days, "error": err})
		p := Fallback(in)
		p.Error = err.Error()
		metrics.IncPlanGenerated(SourceFallback)
		return p
	}
	metrics.IncPlanGenerated(SourceModel)
	return Plan{Items: items, Source: SourceModel}
}

func (g *Generator) fromModel(ctx context.Context, in Input) ([]Item, error) {
	if !llm.IsAvailable(g.Completer) {
		return nil, llm.ErrUnavailable
	}
	req := llm.Request{
		System:      g.Templates.Get(llm.TemplateRoadmapSystem),
		User:        g.prompt(in, false),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if len(req.System)+len(req.User) > MaxPromptChars {
		req.User = g.prompt(in, true)
		telemetry.Info("roadmap.prompt_compacted", map[string]any{"chars": len(req.System) + len(req.User)})
	}
	if g.Model != "" {
		req.Models = []string{g.Model}
	}

	completion, err := g.Completer.Complete(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "api call failed")
	}
	obj, err := g.Normalizer.Normalize(completion.Content)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON response from model")
	}
	items := sanitize(records.Record(obj).Objects("plan"), in.Start, in.Days)
	if len(items) == 0 {
		return nil, errors.New("model returned an empty plan")
	}
	return items, nil
}

func (g *Generator) prompt(in Input, compact bool) string {
	var skills strings.Builder
	for _, s := range in.Skills {
		if compact {
			fmt.Fprintf(&skills, "- %s (%s)\n", s.Name, s.Urgency)
			continue
		}
		fmt.Fprintf(&skills, "- %s: current %d, target %d, urgency %s. %s\n", s.Name, s.Current, s.Target, s.Urgency, s.Suggestion)
	}
	if skills.Len() == 0 {
		skills.WriteString("- None listed.\n")
	}

	suggestions := noSuggestions
	switch {
	case compact:
		suggestions = minimalSuggestions
	case len(in.Suggestions) > 0:
		lines := make([]string, 0, len(in.Suggestions))
		for _, h := range in.Suggestions {
			lines = append(lines, fmt.Sprintf("- %s: %s", h.Title, h.Content))
		}
		suggestions = strings.Join(lines, "\n")
	}

	return llm.Render(g.Templates.Get(llm.TemplateRoadmap), map[string]string{
		"days":        strconv.Itoa(in.Days),
		"start_date":  in.Start.Format(DateLayout),
		"skills":      strings.TrimRight(skills.String(), "\n"),
		"suggestions": suggestions,
	})
}

// sanitize keeps entries with a topic and a date inside [start, start+days),
// at most one per date (the first), orders them by date and assigns task ids.
func sanitize(raw []records.Record, start time.Time, days int) []Item {
	first := start.Format(DateLayout)
	end := start.AddDate(0, 0, days).Format(DateLayout)

	seen := make(map[string]bool, days)
	items := make([]Item, 0, min(len(raw), days))
	for _, r := range raw {
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(r.String("date")))
		if err != nil {
			continue
		}
		date := parsed.Format(DateLayout)
		if date < first || date >= end || seen[date] {
			continue
		}
		topic := strings.TrimSpace(r.String("topic"))
		if topic == "" {
			continue
		}
		seen[date] = true
		items = append(items, Item{
			Date:     date,
			Topic:    topic,
			Skill:    strings.TrimSpace(r.String("skill")),
			Priority: NormalizePriority(r.String("priority")),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	for i := range items {
		items[i].ID = TaskID(i)
	}
	return items
}
