// Package suggestions stores the actionable items derived from gap analyses.
package suggestions

import "time"

type Type string

const (
	TypeSkillGap       Type = "skill_gap"
	TypeRecommendation Type = "recommendation"
	TypeSuggestion     Type = "suggestion"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSkillGap, TypeRecommendation, TypeSuggestion:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Rank orders priorities high first; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Suggestion struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	WorkplaceID string    `json:"workplaceId,omitempty"`
	Type        Type      `json:"suggestionType"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Priority    Priority  `json:"priority"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Type   Type
	IsRead *bool
	Limit  int
}

func (f Filter) matches(s Suggestion) bool {
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.IsRead != nil && s.IsRead != *f.IsRead {
		return false
	}
	return true
}

type Stats struct {
	Total              int `json:"total"`
	Unread             int `json:"unread"`
	HighPriorityUnread int `json:"high_priority_unread"`
}
