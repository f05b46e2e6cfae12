package jobs

import (
	"time"

	"careergap/internal/parsing"
)

// JobDescription is a posted job with its parsed technical requirements.
type JobDescription struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"userId"`
	Title        string                 `json:"title"`
	Company      string                 `json:"company"`
	OriginalText string                 `json:"originalText"`
	ParsedData   parsing.JobDescription `json:"parsedData"`
	CreatedAt    time.Time              `json:"createdAt"`
}
