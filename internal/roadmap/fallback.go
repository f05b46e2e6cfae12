package roadmap

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fallback builds a plan without a model: skills ordered High→Medium→Low
// take turns, one topic per day. Suggestions fill in when there are no skills.
func Fallback(in Input) Plan {
	days := ClampDays(in.Days)
	start := startOf(in.Start)

	topics := fallbackTopics(in)
	seen := make(map[string]int, len(topics))
	items := make([]Item, 0, days)
	for i := 0; i < days; i++ {
		t := topics[i%len(topics)]
		seen[t.skill]++
		topic := t.first
		if seen[t.skill] > 1 || topic == "" {
			topic = fmt.Sprintf("%s practice session %d", t.skill, seen[t.skill])
		}
		items = append(items, Item{
			ID:       TaskID(i),
			Date:     day(start, i),
			Topic:    topic,
			Skill:    t.skill,
			Priority: t.priority,
		})
	}
	return Plan{Items: items, Source: SourceFallback}
}

type fallbackTopic struct {
	skill    string
	first    string
	priority string
}

func fallbackTopics(in Input) []fallbackTopic {
	var out []fallbackTopic
	for _, s := range in.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		out = append(out, fallbackTopic{
			skill:    name,
			first:    strings.TrimSpace(s.Suggestion),
			priority: NormalizePriority(string(s.Urgency)),
		})
	}
	if len(out) == 0 {
		for _, h := range in.Suggestions {
			title := strings.TrimSpace(h.Title)
			if title == "" {
				continue
			}
			out = append(out, fallbackTopic{
				skill:    title,
				first:    strings.TrimSpace(h.Content),
				priority: NormalizePriority(h.Priority),
			})
		}
	}
	if len(out) == 0 {
		return []fallbackTopic{{skill: "Fundamentals", first: "Review core fundamentals for the target role", priority: PriorityMedium}}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].priority) < priorityRank(out[j].priority)
	})
	return out
}

func startOf(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
