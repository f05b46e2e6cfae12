// Package records holds the loosely-typed résumé and job mappings the
// analysis pipeline consumes. Absent or mistyped keys read as empty.
package records

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Résumé keys.
const (
	KeySkills         = "skills"
	KeyEducation      = "education"
	KeyWorkExperience = "work_experience"
	KeyProjects       = "projects"
)

// Job keys.
const (
	KeyTechnicalSkills   = "technical_skills"
	KeyTechnicalSynopsis = "technical_synopsis"
)

// Record is a JSON object with tolerant accessors.
type Record map[string]any

// FromJSON decodes a JSON object. Empty input yields an empty record.
func FromJSON(data []byte) (Record, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Record{}, nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

// From converts any JSON-marshalable value into a Record.
func From(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return FromJSON(data)
}

// String returns the string at key, or "".
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Strings returns the non-empty strings in the list at key. A single
// comma-separated string is split.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Objects returns the object entries of the list at key.
func (r Record) Objects(key string) []Record {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Record(obj))
		}
	}
	return out
}

// Len returns the length of the list at key, counting entries of any type.
func (r Record) Len(key string) int {
	if list, ok := r[key].([]any); ok {
		return len(list)
	}
	return 0
}
