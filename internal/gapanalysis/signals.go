package gapanalysis

import (
	"strings"
	"unicode"

	"careergap/internal/records"
)

// programmingIndicators match résumé skills that imply coding exposure.
var programmingIndicators = []string{
	"python", "java", "javascript", "typescript", "c", "c++", "c#", "go", "golang",
	"rust", "ruby", "php", "kotlin", "swift", "scala", "r", "matlab", "sql",
	"html", "css", "react", "angular", "vue", "node", "node.js", "django", "flask",
	"spring", "programming", "coding", "software", "git", "linux", "bash",
}

// technicalKeywords match work-experience descriptions of technical work.
var technicalKeywords = []string{
	"developed", "programmed", "coded", "implemented", "programming", "coding",
	"software", "api", "apis", "backend", "frontend", "full-stack", "database",
	"script", "scripts", "automation", "deployed", "python", "java", "javascript",
	"sql", "algorithm", "algorithms",
}

var (
	indicatorSet = toSet(programmingIndicators)
	keywordSet   = toSet(technicalKeywords)
)

// HasProgramming reports whether the résumé shows any programming signal: an
// indicator skill, a non-empty projects list, or a technical keyword in a
// work-experience description.
func HasProgramming(resume records.Record) bool {
	for _, skill := range resume.Strings(records.KeySkills) {
		for _, tok := range tokens(skill) {
			if _, ok := indicatorSet[tok]; ok {
				return true
			}
		}
	}

	if resume.Len(records.KeyProjects) > 0 {
		return true
	}

	for _, job := range resume.Objects(records.KeyWorkExperience) {
		for _, tok := range tokens(job.String("description")) {
			if _, ok := keywordSet[tok]; ok {
				return true
			}
		}
	}
	return false
}

// tokens lowercases s and splits it into words, keeping the characters that
// appear inside technology names (c++, c#, node.js, full-stack).
func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '-')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".-")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
