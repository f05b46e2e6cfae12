package gapanalysis

import (
	"encoding/json"

	"careergap/internal/llm"
	"careergap/internal/records"
)

// Prompt is a system/user instruction pair.
type Prompt struct {
	System string
	User   string
}

// PromptBuilder renders the gap analysis prompt from résumé and job records.
type PromptBuilder struct {
	Templates *llm.Templates
}

// Build never fails; nil records render as empty objects.
func (b PromptBuilder) Build(resume, job records.Record) Prompt {
	return Prompt{
		System: b.Templates.Get(llm.TemplateGapSystem),
		User: llm.Render(b.Templates.Get(llm.TemplateGapAnalysis), map[string]string{
			"resume": indentJSON(resume),
			"job":    indentJSON(job),
		}),
	}
}

func indentJSON(r records.Record) string {
	if r == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
