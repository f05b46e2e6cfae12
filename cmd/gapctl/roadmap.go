package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"careergap/internal/gapanalysis"
	"careergap/internal/roadmap"
	"careergap/internal/suggestions"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Build a day-by-day study plan from a gap analysis",
	Args:  cobra.NoArgs,
	RunE:  runRoadmap,
}

var (
	roadmapAnalysis string
	roadmapDays     int
	roadmapStart    string
	roadmapOffline  bool
)

func init() {
	roadmapCmd.Flags().StringVar(&roadmapAnalysis, "analysis", "", "path to a gap analysis document or analyze output")
	roadmapCmd.Flags().IntVar(&roadmapDays, "days", roadmap.DefaultDays, "plan length in days (1-90)")
	roadmapCmd.Flags().StringVar(&roadmapStart, "start", "", "first day, YYYY-MM-DD (default today)")
	roadmapCmd.Flags().BoolVar(&roadmapOffline, "offline", false, "skip the model and build the deterministic plan")
	_ = roadmapCmd.MarkFlagRequired("analysis")

	rootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(roadmapAnalysis)
	if err != nil {
		return err
	}
	start := time.Now().UTC()
	if roadmapStart != "" {
		if start, err = time.Parse(roadmap.DateLayout, roadmapStart); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	in := roadmap.Input{
		Days:        roadmapDays,
		Start:       start,
		Skills:      doc.SkillsToImprove,
		Suggestions: hintsFrom(doc, start),
	}

	c, templates, err := completer(roadmapOffline)
	if err != nil {
		return err
	}
	gen := roadmap.NewGenerator(c, templates, cfg.LLM.ParserModel)
	return writeJSON(cmd.OutOrStdout(), gen.Generate(cmd.Context(), in))
}

// readDocument accepts a bare document or the {"analysis": ...} wrapper
// printed by analyze.
func readDocument(path string) (gapanalysis.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gapanalysis.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	var wrapped struct {
		Analysis *gapanalysis.Document `json:"analysis"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return gapanalysis.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if wrapped.Analysis != nil {
		return *wrapped.Analysis, nil
	}
	var doc gapanalysis.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return gapanalysis.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

func hintsFrom(doc gapanalysis.Document, at time.Time) []roadmap.Hint {
	list := suggestions.FromDocument("", "", doc, at)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority.Rank() < list[j].Priority.Rank()
	})
	if len(list) > suggestions.RoadmapLimit {
		list = list[:suggestions.RoadmapLimit]
	}
	hints := make([]roadmap.Hint, 0, len(list))
	for _, s := range list {
		hints = append(hints, roadmap.Hint{Title: s.Title, Content: s.Content, Priority: string(s.Priority)})
	}
	return hints
}
