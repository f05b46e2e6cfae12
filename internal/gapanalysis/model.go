// Package gapanalysis compares a résumé with a target job. Analyze never
// fails: remote, parse and validation failures degrade to a locally computed
// document and are reported through Outcome.
package gapanalysis

// Urgency is derived from the gap between target and current.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Score bounds applied to every validated item.
const (
	MinCurrent    = 5
	MaxCurrent    = 95
	MaxTarget     = 100
	DefaultTarget = 80

	// ProgrammingFloor replaces a zero score when the résumé shows coding exposure.
	ProgrammingFloor = 25
)

// UrgencyForGap maps target-current to an urgency: >40 High, >20 Medium, else Low.
func UrgencyForGap(gap int) Urgency {
	switch {
	case gap > 40:
		return UrgencyHigh
	case gap > 20:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// SkillGapItem is one skill the candidate should improve.
type SkillGapItem struct {
	Name       string  `json:"name"`
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Urgency    Urgency `json:"urgency"`
	Suggestion string  `json:"suggestion"`
}

// Gap returns Target-Current.
func (s SkillGapItem) Gap() int { return s.Target - s.Current }

// Document is the full gap analysis.
type Document struct {
	Summary         string         `json:"summary"`
	SkillsToImprove []SkillGapItem `json:"skillsToImprove"`
	Strengths       []string       `json:"strengths"`
	Recommendations []string       `json:"recommendations"`
	Suggestions     []string       `json:"suggestions"`
	Conclusion      string         `json:"conclusion"`
}

// RequiredKeys are the top-level keys every document carries.
var RequiredKeys = []string{"summary", "skillsToImprove", "strengths", "recommendations", "suggestions", "conclusion"}

// withEmptyLists replaces nil slices so the document always encodes lists.
func (d Document) withEmptyLists() Document {
	if d.SkillsToImprove == nil {
		d.SkillsToImprove = []SkillGapItem{}
	}
	if d.Strengths == nil {
		d.Strengths = []string{}
	}
	if d.Recommendations == nil {
		d.Recommendations = []string{}
	}
	if d.Suggestions == nil {
		d.Suggestions = []string{}
	}
	return d
}
