package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careergap/internal/llm"
)

type scriptedCompleter struct {
	content string
	err     error
	last    llm.Request
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	s.last = req
	if s.err != nil {
		return llm.Completion{}, s.err
	}
	return llm.Completion{Content: s.content, Model: "parser"}, nil
}

func TestParseResume(t *testing.T) {
	sc := &scriptedCompleter{content: "```json\n" + `{
  "skills": ["Go", " ", "PostgreSQL"],
  "education": [{"degree": "BSc Computer Science", "institution": "Uni", "year": 2019}],
  "work_experience": [{"position": "Engineer", "company": "Acme", "duration": "2 years", "description": "Built APIs"}],
  "projects": [{"name": "X", "technologies": "Go, Redis"}]
}` + "\n```"}
	p := NewParser(sc, nil, "llama-3.1-8b-instant")

	got := p.ParseResume(context.Background(), "Jane Doe\nSkills: Go")

	assert.Empty(t, got.Error)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Skills)
	require.Len(t, got.Education, 1)
	assert.Equal(t, "2019", got.Education[0].Year)
	assert.Equal(t, "Acme", got.WorkExperience[0].Company)
	assert.Equal(t, []string{"Go", "Redis"}, got.Projects[0].Technologies)

	assert.Equal(t, []string{"llama-3.1-8b-instant"}, sc.last.Models)
	assert.Equal(t, resumeMaxTokens, sc.last.MaxTokens)
	assert.Contains(t, sc.last.User, "Jane Doe")
	assert.NotContains(t, sc.last.User, "{text}")
}

func TestParseResumeUnwrapsEnvelope(t *testing.T) {
	sc := &scriptedCompleter{content: `{"resume": {"skills": ["Rust"], "projects": []}}`}
	got := NewParser(sc, nil, "").ParseResume(context.Background(), "text")
	assert.Equal(t, []string{"Rust"}, got.Skills)
	assert.Nil(t, sc.last.Models)
}

func TestParseResumeFailures(t *testing.T) {
	tests := []struct {
		name      string
		completer llm.Completer
		text      string
		contains  string
	}{
		{name: "empty text", completer: &scriptedCompleter{}, text: "  ", contains: "no text"},
		{name: "unconfigured", completer: nil, text: "resume", contains: "not configured"},
		{name: "remote failure", completer: &scriptedCompleter{err: errors.New("status 503")}, text: "resume", contains: "api call failed"},
		{name: "prose reply", completer: &scriptedCompleter{content: "I could not read this résumé."}, text: "resume", contains: "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParser(tt.completer, nil, "").ParseResume(context.Background(), tt.text)
			assert.Contains(t, got.Error, tt.contains)
			assert.NotNil(t, got.Skills)
			assert.Empty(t, got.Skills)
			assert.NotNil(t, got.Projects)
		})
	}
}

func TestParseJobDescription(t *testing.T) {
	sc := &scriptedCompleter{content: `Sure! {"technical_skills": ["Python", "Kubernetes"], "technical_synopsis": " Run ML services. "}`}
	got := NewParser(sc, nil, "").ParseJobDescription(context.Background(), "We need Python")
	assert.Empty(t, got.Error)
	assert.Equal(t, []string{"Python", "Kubernetes"}, got.TechnicalSkills)
	assert.Equal(t, "Run ML services.", got.TechnicalSynopsis)
	assert.Equal(t, jobMaxTokens, sc.last.MaxTokens)

	failed := NewParser(&scriptedCompleter{err: errors.New("boom")}, nil, "").ParseJobDescription(context.Background(), "x")
	assert.NotEmpty(t, failed.Error)
	assert.Equal(t, []string{}, failed.TechnicalSkills)
}

func TestParseTruncatesLongInput(t *testing.T) {
	sc := &scriptedCompleter{content: `{"technical_skills": []}`}
	NewParser(sc, nil, "").ParseJobDescription(context.Background(), strings.Repeat("a", MaxInputChars+500))
	assert.Less(t, len(sc.last.User), MaxInputChars+2000)
}

func TestRecordConversion(t *testing.T) {
	r := Resume{Skills: []string{"Go"}, Projects: []Project{{Name: "X"}}}
	rec := r.Record()
	assert.Equal(t, []string{"Go"}, rec.Strings("skills"))
	assert.Equal(t, 1, rec.Len("projects"))
	_, hasErr := rec["error"]
	assert.False(t, hasErr)

	j := JobDescription{TechnicalSkills: []string{"Rust"}}
	assert.Equal(t, []string{"Rust"}, j.Record().Strings("technical_skills"))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, "2020", scalar(float64(2020)))
	assert.Equal(t, "3.5", scalar(3.5))
	assert.Equal(t, "", scalar(nil))
	assert.Equal(t, "x", scalar(" x "))
}
