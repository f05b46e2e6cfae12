// Package export renders gap analyses as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"careergap/internal/gapanalysis"
)

const (
	GapSheet     = "Gap Analysis"
	SummarySheet = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Report is the metadata printed above the summary.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Outcome     gapanalysis.Kind
	Reason      gapanalysis.Reason
}

var gapHeaders = []string{"Skill", "Current", "Target", "Gap", "Urgency", "Suggestion"}

var urgencyFill = map[gapanalysis.Urgency]string{
	gapanalysis.UrgencyHigh:   "FFC7CE",
	gapanalysis.UrgencyMedium: "FFEB9C",
	gapanalysis.UrgencyLow:    "C6EFCE",
}

// Workbook builds the two-sheet workbook. The caller closes it.
func Workbook(doc gapanalysis.Document, r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", GapSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeGapSheet(f, doc.SkillsToImprove); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gap sheet: %w", err)
	}
	if err := writeSummarySheet(f, doc, r); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	return f, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, doc gapanalysis.Document, r Report) error {
	f, err := Workbook(doc, r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeGapSheet(f *excelize.File, items []gapanalysis.SkillGapItem) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	for col, h := range gapHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(GapSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(GapSheet, "A1", "F1", header); err != nil {
		return err
	}

	fills := make(map[gapanalysis.Urgency]int, len(urgencyFill))
	for u, color := range urgencyFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		fills[u] = id
	}

	for i, item := range items {
		row := i + 2
		values := []any{item.Name, item.Current, item.Target, item.Gap(), string(item.Urgency), item.Suggestion}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(GapSheet, cell, &values); err != nil {
			return err
		}
		if style, ok := fills[item.Urgency]; ok {
			urgencyCell := fmt.Sprintf("E%d", row)
			if err := f.SetCellStyle(GapSheet, urgencyCell, urgencyCell, style); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(GapSheet, "A", "A", 25)
	_ = f.SetColWidth(GapSheet, "B", "E", 12)
	_ = f.SetColWidth(GapSheet, "F", "F", 60)
	return f.SetPanes(GapSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, doc gapanalysis.Document, r Report) error {
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 20)
	_ = f.SetColWidth(SummarySheet, "B", "B", 80)

	row := 1
	put := func(name string, value any) error {
		a, b := fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row)
		if err := f.SetCellValue(SummarySheet, a, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, a, a, label); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, b, value); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, b, b, wrap); err != nil {
			return err
		}
		row++
		return nil
	}
	list := func(name string, values []string) error {
		for i, v := range values {
			heading := ""
			if i == 0 {
				heading = name
			}
			if err := put(heading, v); err != nil {
				return err
			}
		}
		if len(values) == 0 {
			return put(name, "")
		}
		return nil
	}

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	steps := []func() error{
		func() error { return put("Title", r.Title) },
		func() error { return put("Generated", generated.Format("2006-01-02 15:04:05")) },
		func() error { return put("Outcome", outcomeLabel(r)) },
		func() error { return put("Summary", doc.Summary) },
		func() error { return list("Strengths", doc.Strengths) },
		func() error { return list("Recommendations", doc.Recommendations) },
		func() error { return list("Suggestions", doc.Suggestions) },
		func() error { return put("Conclusion", doc.Conclusion) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func outcomeLabel(r Report) string {
	if r.Outcome == "" {
		return ""
	}
	if r.Reason == "" {
		return string(r.Outcome)
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
}
