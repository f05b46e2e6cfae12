package parsing

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"careergap/internal/llm"
	"careergap/internal/records"
	"careergap/internal/shared/telemetry"
)

const (
	systemPrompt = "You extract structured data from documents. Respond with a single JSON object and nothing else."

	resumeMaxTokens = 2000
	jobMaxTokens    = 1000
	temperature     = 0.2

	// MaxInputChars bounds the document text sent to the model.
	MaxInputChars = 20000
)

// Parser extracts structured data through a Completer. A zero Model uses the
// completer's configured chain.
type Parser struct {
	Completer llm.Completer
	Templates *llm.Templates
	Model     string
}

// NewParser returns a Parser. A nil completer yields parse errors on every call.
func NewParser(c llm.Completer, templates *llm.Templates, model string) *Parser {
	if c == nil {
		c = llm.Unavailable{}
	}
	return &Parser{Completer: c, Templates: templates, Model: strings.TrimSpace(model)}
}

// ParseResume never fails: on any error it returns EmptyResume with the cause.
func (p *Parser) ParseResume(ctx context.Context, text string) Resume {
	obj, err := p.complete(ctx, llm.TemplateResumeParse, text, resumeMaxTokens,
		llm.HasKeys(records.KeySkills), "resume")
	if err != nil {
		telemetry.Warn("parse.resume_failed", map[string]any{"error": err})
		return EmptyResume(err.Error())
	}
	return resumeFrom(records.Record(obj))
}

// ParseJobDescription never fails: on any error it returns
// EmptyJobDescription with the cause.
func (p *Parser) ParseJobDescription(ctx context.Context, text string) JobDescription {
	obj, err := p.complete(ctx, llm.TemplateJobParse, text, jobMaxTokens,
		llm.HasKeys(records.KeyTechnicalSkills), "job_description")
	if err != nil {
		telemetry.Warn("parse.job_failed", map[string]any{"error": err})
		return EmptyJobDescription(err.Error())
	}
	rec := records.Record(obj)
	return JobDescription{
		TechnicalSkills:   nonNil(rec.Strings(records.KeyTechnicalSkills)),
		TechnicalSynopsis: strings.TrimSpace(rec.String(records.KeyTechnicalSynopsis)),
	}
}

func (p *Parser) complete(ctx context.Context, template, text string, maxTokens int, expect func(map[string]any) bool, envelope string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("no text to parse")
	}
	if !llm.IsAvailable(p.Completer) {
		return nil, llm.ErrUnavailable
	}
	if r := []rune(text); len(r) > MaxInputChars {
		text = string(r[:MaxInputChars])
	}

	req := llm.Request{
		System:      systemPrompt,
		User:        llm.Render(p.Templates.Get(template), map[string]string{"text": text}),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if p.Model != "" {
		req.Models = []string{p.Model}
	}
	completion, err := p.Completer.Complete(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "api call failed")
	}
	n := llm.Normalizer{EnvelopeKeys: []string{envelope, "data", "result"}, Expect: expect}
	obj, err := n.Normalize(completion.Content)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON response from model")
	}
	return obj, nil
}

func resumeFrom(rec records.Record) Resume {
	out := EmptyResume("")
	out.Skills = nonNil(rec.Strings(records.KeySkills))
	for _, e := range rec.Objects(records.KeyEducation) {
		out.Education = append(out.Education, Education{
			Degree:      scalar(e["degree"]),
			Institution: scalar(e["institution"]),
			Year:        scalar(e["year"]),
			Details:     scalar(e["details"]),
		})
	}
	for _, w := range rec.Objects(records.KeyWorkExperience) {
		out.WorkExperience = append(out.WorkExperience, WorkExperience{
			Position:    scalar(w["position"]),
			Company:     scalar(w["company"]),
			Duration:    scalar(w["duration"]),
			Description: scalar(w["description"]),
		})
	}
	for _, pr := range rec.Objects(records.KeyProjects) {
		out.Projects = append(out.Projects, Project{
			Name:         scalar(pr["name"]),
			Description:  scalar(pr["description"]),
			Technologies: nonNil(pr.Strings("technologies")),
			Duration:     scalar(pr["duration"]),
		})
	}
	return out
}

// scalar renders strings and numbers as text; models often emit years as numbers.
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
