package resumes

import (
	"time"

	"careergap/internal/parsing"
)

// Resume is an uploaded résumé with its extracted text and parsed structure.
type Resume struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Title        string         `json:"title"`
	FileKey      string         `json:"-"`
	OriginalText string         `json:"originalText"`
	ParsedData   parsing.Resume `json:"parsedData"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Summary is the list view of a résumé.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SkillsCount int       `json:"skillsCount"`
	ParseError  string    `json:"parseError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r Resume) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Title:       r.Title,
		SkillsCount: len(r.ParsedData.Skills),
		ParseError:  r.ParsedData.Error,
		CreatedAt:   r.CreatedAt,
	}
}
