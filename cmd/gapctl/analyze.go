package main

import (
	"github.com/spf13/cobra"

	"careergap/internal/gapanalysis"
	"careergap/internal/llm"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a parsed résumé with a parsed job description",
	Long:  "Runs the gap analysis on two JSON records and prints the outcome. Without an API key the emergency fallback is used.",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

var (
	analyzeResume  string
	analyzeJob     string
	analyzeOffline bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeResume, "resume", "", "path to the résumé record JSON")
	analyzeCmd.Flags().StringVar(&analyzeJob, "job", "", "path to the job record JSON")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the model and use the emergency fallback")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	resume, err := readRecord(analyzeResume)
	if err != nil {
		return err
	}
	job, err := readRecord(analyzeJob)
	if err != nil {
		return err
	}

	c, templates, err := completer(analyzeOffline)
	if err != nil {
		return err
	}

	var outcome gapanalysis.Outcome
	if llm.IsAvailable(c) {
		analyzer := gapanalysis.NewAnalyzer(c,
			gapanalysis.WithTemplates(templates),
			gapanalysis.WithMaxTokens(cfg.LLM.MaxTokens),
		)
		outcome = analyzer.Analyze(cmd.Context(), resume, job)
	} else {
		outcome = gapanalysis.Emergency(resume, job)
	}
	return writeJSON(cmd.OutOrStdout(), outcome)
}
