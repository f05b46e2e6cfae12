// Package workplaces binds a résumé and a job description into an analysis
// session and stores the resulting gap analysis.
package workplaces

import (
	"time"

	"careergap/internal/gapanalysis"
)

// Workplace is one analysis session.
type Workplace struct {
	ID               string                `json:"id"`
	UserID           string                `json:"userId"`
	Name             string                `json:"name"`
	ResumeID         string                `json:"resumeId"`
	JobDescriptionID string                `json:"jobDescriptionId"`
	Analysis         *gapanalysis.Document `json:"analysis,omitempty"`
	OutcomeKind      gapanalysis.Kind      `json:"outcomeKind,omitempty"`
	OutcomeReason    gapanalysis.Reason    `json:"outcomeReason,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// Summary is the list view of a workplace.
type Summary struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	OutcomeKind   gapanalysis.Kind `json:"outcomeKind,omitempty"`
	SkillsToWatch int              `json:"skillsToImprove"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func (w Workplace) Summary() Summary {
	s := Summary{ID: w.ID, Name: w.Name, OutcomeKind: w.OutcomeKind, CreatedAt: w.CreatedAt}
	if w.Analysis != nil {
		s.SkillsToWatch = len(w.Analysis.SkillsToImprove)
	}
	return s
}
