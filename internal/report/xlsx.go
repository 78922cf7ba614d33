// Package report renders finished screening runs as XLSX workbooks for
// the underwriting review team.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

// Traffic-light fills as used in the review team's manual checklists.
const (
	fillGreen  = "C6EFCE"
	fillYellow = "FFEB9C"
	fillRed    = "FFC7CE"
	fontGreen  = "006100"
	fontYellow = "9C6500"
	fontRed    = "9C0006"
)

// Writer produces one workbook per run: a verdict matrix, a ranked finding
// list, and a per-page extraction audit.
type Writer struct {
	table  *rules.Table
	logger *slog.Logger
}

func NewWriter(table *rules.Table, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{table: table, logger: logger}
}

// WriteXLSX returns the workbook as bytes.
func (w *Writer) WriteXLSX(verdicts []entity.DocumentVerdict) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	styles, err := flagStyles(f)
	if err != nil {
		return nil, fmt.Errorf("xlsx styles: %w", err)
	}

	if err := w.writeVerdicts(f, styles, verdicts); err != nil {
		return nil, err
	}
	if err := w.writeFindings(f, styles, verdicts); err != nil {
		return nil, err
	}
	if err := w.writePages(f, verdicts); err != nil {
		return nil, err
	}

	// Drop the default sheet so the matrix opens first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, _ := f.GetSheetIndex("Verdicts")
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.xlsx.ok",
		"documents", len(verdicts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func flagStyles(f *excelize.File) (map[constants.Flag]int, error) {
	mk := func(fill, font string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Font: &excelize.Font{Color: font},
		})
	}
	green, err := mk(fillGreen, fontGreen)
	if err != nil {
		return nil, err
	}
	yellow, err := mk(fillYellow, fontYellow)
	if err != nil {
		return nil, err
	}
	red, err := mk(fillRed, fontRed)
	if err != nil {
		return nil, err
	}
	return map[constants.Flag]int{
		constants.FlagGreen:   green,
		constants.FlagYellow:  yellow,
		constants.FlagUnknown: yellow,
		constants.FlagRed:     red,
	}, nil
}

// writeVerdicts lays documents out as rows and criteria as columns, one
// traffic-light cell per pair.
func (w *Writer) writeVerdicts(f *excelize.File, styles map[constants.Flag]int, verdicts []entity.DocumentVerdict) error {
	const sheet = "Verdicts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Document", "Overall", "Open Checks"}
	for _, c := range w.table.Criteria {
		headers = append(headers, fmt.Sprintf("%d %s", c.ID, c.Name))
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, v := range verdicts {
		write := func(col int, val any, style int) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, val)
			if style != 0 {
				_ = f.SetCellStyle(sheet, cell, cell, style)
			}
		}

		write(1, v.Name, 0)
		write(2, string(v.Overall), styles[v.Overall])
		write(3, len(v.Unknown), 0)

		byID := make(map[int]entity.CriterionResult, len(v.Criteria))
		for _, r := range v.Criteria {
			byID[r.CriterionID] = r
		}
		for i, c := range w.table.Criteria {
			r, ok := byID[c.ID]
			if !ok {
				continue
			}
			write(4+i, string(r.Flag), styles[r.Flag])
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 42)
	_ = f.SetColWidth(sheet, "B", "C", 12)
	last, _ := excelize.ColumnNumberToName(3 + w.table.Len())
	_ = f.SetColWidth(sheet, "D", last, 16)
	return nil
}

// writeFindings lists every non-green criterion across the run, worst
// first, with the evidence a reviewer needs to locate the clause.
func (w *Writer) writeFindings(f *excelize.File, styles map[constants.Flag]int, verdicts []entity.DocumentVerdict) error {
	const sheet = "Findings"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Document", "Criterion", "Severity", "Flag", "Rank", "Evidence"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, v := range verdicts {
		byID := make(map[int]entity.CriterionResult, len(v.Criteria))
		for _, r := range v.Criteria {
			byID[r.CriterionID] = r
		}
		for _, fd := range v.Findings {
			write := func(col int, val any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, val)
			}
			write(1, v.Name)
			write(2, fmt.Sprintf("%d %s", fd.CriterionID, fd.Name))
			write(3, string(fd.Severity))
			write(4, string(fd.Flag))
			write(5, fd.Rank)
			write(6, truncate(byID[fd.CriterionID].Evidence.Detail, 140))

			cell, _ := excelize.CoordinatesToCellName(4, row)
			_ = f.SetCellStyle(sheet, cell, cell, styles[fd.Flag])
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 42)
	_ = f.SetColWidth(sheet, "B", "B", 34)
	_ = f.SetColWidth(sheet, "C", "E", 10)
	_ = f.SetColWidth(sheet, "F", "F", 72)
	return nil
}

// writePages is the extraction audit: one row per page with the gate's
// classification, so a questioned verdict can be traced to its input.
func (w *Writer) writePages(f *excelize.File, verdicts []entity.DocumentVerdict) error {
	const sheet = "Pages"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Document", "Page", "Status", "Confidence", "Reason", "Fallback"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, v := range verdicts {
		for _, p := range v.Pages {
			write := func(col int, val any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, val)
			}
			write(1, v.Name)
			write(2, p.PageIndex+1)
			write(3, string(p.Status))
			write(4, fmt.Sprintf("%.2f", p.Confidence))
			write(5, p.Reason)
			write(6, p.Fallback)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 42)
	_ = f.SetColWidth(sheet, "B", "F", 14)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
