// Package parsing turns raw résumé and job-description text into the
// structured records the gap analysis consumes.
package parsing

import "careergap/internal/records"

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Details     string `json:"details"`
}

type WorkExperience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Duration     string   `json:"duration"`
}

// Resume is the structured form of a résumé. Error is set when parsing
// failed; the lists are then empty.
type Resume struct {
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Projects       []Project        `json:"projects"`
	Error          string           `json:"error,omitempty"`
}

// JobDescription is the structured form of a job posting.
type JobDescription struct {
	TechnicalSkills   []string `json:"technical_skills"`
	TechnicalSynopsis string   `json:"technical_synopsis"`
	Error             string   `json:"error,omitempty"`
}

// EmptyResume returns a résumé with empty lists and the given error.
func EmptyResume(reason string) Resume {
	return Resume{
		Skills:         []string{},
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Projects:       []Project{},
		Error:          reason,
	}
}

// EmptyJobDescription returns a job description with no skills and the given error.
func EmptyJobDescription(reason string) JobDescription {
	return JobDescription{TechnicalSkills: []string{}, Error: reason}
}

// Record converts the résumé to the loosely-typed form used by the analyzer.
func (r Resume) Record() records.Record {
	rec, err := records.From(r)
	if err != nil {
		return records.Record{}
	}
	return rec
}

// Record converts the job description to the loosely-typed form used by the analyzer.
func (j JobDescription) Record() records.Record {
	rec, err := records.From(j)
	if err != nil {
		return records.Record{}
	}
	return rec
}
