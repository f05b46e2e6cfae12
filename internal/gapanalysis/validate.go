package gapanalysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"careergap/internal/records"
)

//go:embed schema.json
var documentSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func documentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchemaJSON))
	})
	return schema, schemaErr
}

// ValidationError reports why a candidate document was rejected.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid gap analysis: " + strings.Join(e.Problems, "; ")
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Validate turns a parsed candidate into a Document. The required keys and
// their types are checked first; then every skill item is scored:
//
//   - a zero (or absent) current becomes ProgrammingFloor when HasProgramming(resume)
//   - current is rounded and clamped to [MinCurrent, MaxCurrent]
//   - an absent target, or one below current, becomes max(DefaultTarget, current)
//   - urgency is recomputed from the gap
//
// Any other defect rejects the whole candidate.
func Validate(candidate map[string]any, resume records.Record) (Document, error) {
	if candidate == nil {
		return Document{}, invalid("candidate is empty")
	}
	s, err := documentSchema()
	if err != nil {
		return Document{}, fmt.Errorf("load document schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(candidate))
	if err != nil {
		return Document{}, invalid("schema check: %v", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, re := range result.Errors() {
			verr.Problems = append(verr.Problems, re.String())
		}
		return Document{}, verr
	}

	hasProgramming := HasProgramming(resume)
	rawItems, _ := candidate["skillsToImprove"].([]any)
	items := make([]SkillGapItem, 0, len(rawItems))
	for i, raw := range rawItems {
		obj, _ := raw.(map[string]any)
		item, err := scoreItem(obj, hasProgramming)
		if err != nil {
			return Document{}, invalid("skillsToImprove[%d]: %v", i, err)
		}
		items = append(items, item)
	}

	doc := Document{
		Summary:         candidate["summary"].(string),
		SkillsToImprove: items,
		Strengths:       stringList(candidate["strengths"]),
		Recommendations: stringList(candidate["recommendations"]),
		Suggestions:     stringList(candidate["suggestions"]),
		Conclusion:      candidate["conclusion"].(string),
	}
	return doc.withEmptyLists(), nil
}

func scoreItem(obj map[string]any, hasProgramming bool) (SkillGapItem, error) {
	item := SkillGapItem{Name: obj["name"].(string)}
	if s, ok := obj["suggestion"].(string); ok {
		item.Suggestion = s
	}

	raw, _, err := number(obj["current"])
	if err != nil {
		return SkillGapItem{}, fmt.Errorf("current: %w", err)
	}
	current := score(raw)
	if raw == 0 && hasProgramming {
		current = ProgrammingFloor
	}
	item.Current = clamp(current, MinCurrent, MaxCurrent)

	raw, present, err := number(obj["target"])
	if err != nil {
		return SkillGapItem{}, fmt.Errorf("target: %w", err)
	}
	target := score(raw)
	if !present || target < item.Current {
		target = max(DefaultTarget, item.Current)
	}
	item.Target = min(target, MaxTarget)

	item.Urgency = UrgencyForGap(item.Gap())
	return item, nil
}

// number reads a JSON number. present is false for absent or null values,
// which read as 0.
func number(v any) (f float64, present bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		if f, err = x.Float64(); err != nil {
			return 0, false, fmt.Errorf("not numeric: %q", x.String())
		}
	default:
		return 0, false, fmt.Errorf("not numeric: %v", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("not a finite number")
	}
	return f, true, nil
}

// score rounds f to an int, saturating far outside the percentage range so
// the conversion never overflows.
func score(f float64) int {
	return int(math.Round(math.Max(math.MinInt32, math.Min(math.MaxInt32, f))))
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ExpectDocument reports whether obj carries all required keys; used to
// unwrap envelope objects during normalization.
func ExpectDocument(obj map[string]any) bool {
	for _, k := range RequiredKeys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}
