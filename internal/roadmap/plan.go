// Package roadmap turns skill gaps and open suggestions into a day-by-day
// study plan.
package roadmap

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const (
	DefaultDays = 14
	MinDays     = 1
	MaxDays     = 90
)

// Plan sources.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Priorities used in plan entries.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Item is one day of study.
type Item struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
}

// Plan is the generated roadmap. Error carries the reason a fallback plan
// was used.
type Plan struct {
	Items  []Item `json:"plan"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

// Dates returns the first and last dates of the plan.
func (p Plan) Dates() (start, end string) {
	if len(p.Items) == 0 {
		return "", ""
	}
	return p.Items[0].Date, p.Items[len(p.Items)-1].Date
}

// TaskID is the stable identifier of the entry on day index i (0-based).
func TaskID(i int) string {
	return fmt.Sprintf("day-%02d", i+1)
}

// ClampDays maps 0 to DefaultDays and bounds the rest to [MinDays, MaxDays].
func ClampDays(days int) int {
	switch {
	case days == 0:
		return DefaultDays
	case days < MinDays:
		return MinDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

// NormalizePriority maps any casing of high/medium/low to its title form.
// Unknown values become Medium.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func day(start time.Time, i int) string {
	return start.AddDate(0, 0, i).Format(DateLayout)
}
