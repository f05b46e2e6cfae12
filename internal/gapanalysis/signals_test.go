package gapanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careergap/internal/records"
)

func TestHasProgramming(t *testing.T) {
	tests := []struct {
		name   string
		resume records.Record
		want   bool
	}{
		{name: "empty", resume: records.Record{}, want: false},
		{name: "indicator skill", resume: records.Record{"skills": []any{"Python (3 years)"}}, want: true},
		{name: "symbol skill", resume: records.Record{"skills": []any{"C++"}}, want: true},
		{name: "dotted skill", resume: records.Record{"skills": []any{"Node.js"}}, want: true},
		{name: "substring is not a match", resume: records.Record{"skills": []any{"Google Workspace", "Gardening"}}, want: false},
		{name: "projects", resume: records.Record{"projects": []any{map[string]any{"name": "X"}}}, want: true},
		{name: "empty projects", resume: records.Record{"projects": []any{}}, want: false},
		{name: "work description", resume: records.Record{"work_experience": []any{
			map[string]any{"position": "Analyst", "description": "Developed reporting scripts for finance."},
		}}, want: true},
		{name: "non-technical work", resume: records.Record{"work_experience": []any{
			map[string]any{"position": "Barista", "description": "Served customers."},
		}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasProgramming(tt.resume))
		})
	}
}
