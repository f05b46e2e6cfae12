package gapanalysis

import (
	"fmt"

	"careergap/internal/records"
)

// FallbackProfile parameterizes the heuristic document. For skill index i the
// current level is ProgrammingBase+i*ProgrammingStep when the résumé shows
// programming exposure, NoviceBase+i*NoviceStep otherwise.
type FallbackProfile struct {
	Name            string
	MaxSkills       int
	ProgrammingBase int
	ProgrammingStep int
	NoviceBase      int
	NoviceStep      int
	// HighBelow is the current level under which an item is High urgency.
	HighBelow int
}

// Heuristic constants shared by every profile.
const (
	fallbackMin        = 10
	fallbackMax        = 75
	fallbackMediumLT   = 55
	fallbackStrengthAt = 60
)

var (
	// StandardProfile backs analyses whose remote call or output failed.
	StandardProfile = FallbackProfile{
		Name:            "standard",
		MaxSkills:       5,
		ProgrammingBase: 35,
		ProgrammingStep: 8,
		NoviceBase:      15,
		NoviceStep:      5,
		HighBelow:       35,
	}
	// EmergencyProfile backs routes answering without a configured completion service.
	EmergencyProfile = FallbackProfile{
		Name:            "emergency",
		MaxSkills:       4,
		ProgrammingBase: 40,
		ProgrammingStep: 8,
		NoviceBase:      20,
		NoviceStep:      5,
		HighBelow:       40,
	}
)

// Placeholder strengths used when no target skill scores as a strength.
var PlaceholderStrengths = []string{
	"Willingness to learn new technologies",
	"Foundational problem-solving ability",
}

// Fallback builds a document from the résumé and job alone. It is
// deterministic and never touches the network.
func Fallback(resume, job records.Record, p FallbackProfile) Document {
	if p.MaxSkills <= 0 {
		p = StandardProfile
	}
	skills := job.Strings(records.KeyTechnicalSkills)
	if len(skills) > p.MaxSkills {
		skills = skills[:p.MaxSkills]
	}
	hasProgramming := HasProgramming(resume)

	items := make([]SkillGapItem, 0, len(skills))
	var strengths []string
	for i, skill := range skills {
		current := p.NoviceBase + i*p.NoviceStep
		if hasProgramming {
			current = p.ProgrammingBase + i*p.ProgrammingStep
		}
		current = clamp(current, fallbackMin, fallbackMax)
		if current >= fallbackStrengthAt {
			strengths = append(strengths, skill)
			continue
		}
		urgency := p.urgency(current)
		items = append(items, SkillGapItem{
			Name:       skill,
			Current:    current,
			Target:     targetFor(urgency, current),
			Urgency:    urgency,
			Suggestion: fmt.Sprintf("Build a small project that uses %s and write down what you learned.", skill),
		})
	}
	if len(strengths) == 0 {
		strengths = append([]string(nil), PlaceholderStrengths...)
	}

	top := "the listed job skills"
	if len(items) > 0 {
		top = items[0].Name
	}

	doc := Document{
		Summary: fmt.Sprintf("This analysis was estimated from your résumé and the job's listed skills. %d of %d target skills need improvement.",
			len(items), len(skills)),
		SkillsToImprove: items,
		Strengths:       strengths,
		Recommendations: []string{
			fmt.Sprintf("Prioritize %s: it has the largest gap for this role.", top),
			"Finish one hands-on project per target skill and publish it in a public repository.",
			"Combine a structured course with 30-60 minutes of daily practice.",
		},
		Suggestions: []string{
			fmt.Sprintf("Start an introductory %s course this week.", top),
			fmt.Sprintf("Add your %s project to your résumé once it is finished.", top),
			"Review the job description weekly and track progress on each listed skill.",
		},
		Conclusion: "Focus on the high-urgency skills first. Regenerate this analysis later for a more detailed assessment.",
	}
	return doc.withEmptyLists()
}

func (p FallbackProfile) urgency(current int) Urgency {
	switch {
	case current < p.HighBelow:
		return UrgencyHigh
	case current < fallbackMediumLT:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// targetFor picks a target whose gap yields the same urgency under
// UrgencyForGap, so fallback items satisfy the validated invariants.
func targetFor(u Urgency, current int) int {
	gap := 15
	switch u {
	case UrgencyHigh:
		gap = 45
	case UrgencyMedium:
		gap = 30
	}
	return min(current+gap, MaxTarget)
}
