package llm

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"careergap/internal/shared/telemetry"
)

//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// Template names.
const (
	TemplateGapSystem     = "gap_analysis_system"
	TemplateGapAnalysis   = "gap_analysis"
	TemplateResumeParse   = "resume_parse"
	TemplateJobParse      = "job_parse"
	TemplateRoadmapSystem = "roadmap_system"
	TemplateRoadmap       = "roadmap"
)

// Templates resolves prompt templates from an optional override directory,
// falling back to the embedded copies.
type Templates struct {
	dir string

	mu    sync.Mutex
	cache map[string]string
}

// NewTemplates returns a Templates reading overrides from dir ("" disables overrides).
func NewTemplates(dir string) *Templates {
	return &Templates{dir: strings.TrimSpace(dir), cache: make(map[string]string)}
}

// Get returns the named template. It never fails: unreadable overrides are
// logged and the embedded template is used.
func (t *Templates) Get(name string) string {
	if t == nil {
		return embedded(name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.cache[name]; ok {
		return s
	}
	s := embedded(name)
	if t.dir != "" {
		data, err := os.ReadFile(filepath.Join(t.dir, name+".txt"))
		if err == nil && strings.TrimSpace(string(data)) != "" {
			s = string(data)
		} else if err != nil && !os.IsNotExist(err) {
			telemetry.Warn("prompt.override_unreadable", map[string]any{"name": name, "dir": t.dir, "error": err})
		}
	}
	t.cache[name] = s
	return s
}

func embedded(name string) string {
	data, err := embeddedPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return ""
	}
	return string(data)
}

// Render substitutes {key} placeholders in tmpl.
func Render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
