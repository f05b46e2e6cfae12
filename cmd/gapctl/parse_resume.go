package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"careergap/internal/extract"
	"careergap/internal/parsing"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume <file.pdf>",
	Short: "Extract and parse a résumé PDF into a structured record",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseResume,
}

var parseTextOnly bool

func init() {
	parseResumeCmd.Flags().BoolVar(&parseTextOnly, "text-only", false, "print the extracted text without calling the parser")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if !extract.IsPDF(data) {
		return fmt.Errorf("%s is not a PDF", args[0])
	}
	text, err := extract.PDFText(cmd.Context(), data)
	if err != nil {
		return err
	}
	if parseTextOnly {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	c, templates, err := completer(false)
	if err != nil {
		return err
	}
	parser := parsing.NewParser(c, templates, cfg.LLM.ParserModel)
	return writeJSON(cmd.OutOrStdout(), parser.ParseResume(cmd.Context(), text))
}
