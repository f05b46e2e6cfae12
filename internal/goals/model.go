// Package goals keeps one active study plan per workplace and tracks which
// plan tasks the user has completed.
package goals

import (
	"time"

	"careergap/internal/roadmap"
)

type Goal struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	WorkplaceID  string       `json:"workplaceId"`
	Plan         roadmap.Plan `json:"goalData"`
	DurationDays int          `json:"durationDays"`
	PlanSource   string       `json:"planSource"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Completion is the state of one task on one day.
type Completion struct {
	TaskID      string     `json:"taskId"`
	Date        time.Time  `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Stats struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	DaysWithTasks  int     `json:"days_with_tasks"`
}

// ByDate groups completions as date -> task id -> completed.
func ByDate(list []Completion) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, c := range list {
		key := c.Date.Format(roadmap.DateLayout)
		if out[key] == nil {
			out[key] = make(map[string]bool)
		}
		out[key][c.TaskID] = c.Completed
	}
	return out
}
