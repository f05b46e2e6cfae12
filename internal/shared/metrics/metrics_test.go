package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestRenderIncludesLabeledCounters(t *testing.T) {
	Reset()
	ObserveGapAnalysis("degraded", "remote_call_failure", 1500*time.Millisecond)
	ObserveGapAnalysis("success", "", 200*time.Millisecond)
	IncLLMAttempt("llama3-70b-8192", "error")

	out := Render()
	for _, want := range []string{
		`gap_analysis_total{kind="degraded",reason="remote_call_failure"} 1`,
		`gap_analysis_total{kind="success",reason="none"} 1`,
		`llm_attempts_total{model="llama3-70b-8192",result="error"} 1`,
		`gap_analysis_duration_ms_count 2`,
		`gap_analysis_duration_ms_bucket{le="250"} 1`,
		`gap_analysis_duration_ms_bucket{le="2000"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
