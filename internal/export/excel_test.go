package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"careergap/internal/gapanalysis"
)

func sampleDocument() gapanalysis.Document {
	return gapanalysis.Document{
		Summary: "Solid backend foundation.",
		SkillsToImprove: []gapanalysis.SkillGapItem{
			{Name: "Rust", Current: 25, Target: 80, Urgency: gapanalysis.UrgencyHigh, Suggestion: "Build a CLI."},
			{Name: "Kubernetes", Current: 50, Target: 80, Urgency: gapanalysis.UrgencyMedium, Suggestion: "Deploy a side project."},
		},
		Strengths:       []string{"Python", "SQL"},
		Recommendations: []string{"Contribute to a Rust crate."},
		Suggestions:     []string{},
		Conclusion:      "Promising candidate.",
	}
}

func TestWriteProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	report := Report{
		Title:       "Backend Engineer",
		GeneratedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		Outcome:     gapanalysis.KindDegraded,
		Reason:      gapanalysis.ReasonRemoteCall,
	}
	require.NoError(t, Write(&buf, sampleDocument(), report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{GapSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(GapSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, gapHeaders, rows[0])
	assert.Equal(t, []string{"Rust", "25", "80", "55", "High", "Build a CLI."}, rows[1])
	assert.Equal(t, "30", rows[2][3])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	byLabel := map[string]string{}
	for _, r := range summary {
		if len(r) == 2 && r[0] != "" {
			byLabel[r[0]] = r[1]
		}
	}
	assert.Equal(t, "Backend Engineer", byLabel["Title"])
	assert.Equal(t, "2026-05-01 09:30:00", byLabel["Generated"])
	assert.Equal(t, "degraded (remote_call_failure)", byLabel["Outcome"])
	assert.Equal(t, "Python", byLabel["Strengths"])
	assert.Equal(t, "Promising candidate.", byLabel["Conclusion"])

	var strengths []string
	for i, r := range summary {
		if len(r) > 0 && r[0] == "Strengths" {
			strengths = append(strengths, r[1], summary[i+1][1])
		}
	}
	assert.Equal(t, []string{"Python", "SQL"}, strengths)
}

func TestWorkbookWithEmptyDocument(t *testing.T) {
	f, err := Workbook(gapanalysis.Document{}, Report{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(GapSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
