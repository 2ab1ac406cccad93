package exporter

import (
	"fmt"
	"io"
	"strings"

	"sheet-verify/internal/config"
	"sheet-verify/internal/model"
	"sheet-verify/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	maxSheetNameLen = 31
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(result *pipeline.Result, cfg *config.Config) error {
	f, err := e.Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(cfg.GetOutputPath("xlsx")); err != nil {
		return fmt.Errorf("failed to save excel report: %w", err)
	}
	return nil
}

// Write streams the Excel report to w
func (e *ExcelExporter) Write(w io.Writer, result *pipeline.Result) error {
	f, err := e.Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel report: %w", err)
	}
	return nil
}

// Build assembles the workbook: a Summary sheet, then one sheet per check
func (e *ExcelExporter) Build(result *pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := e.writeSummary(f, styler, result); err != nil {
		f.Close()
		return nil, err
	}

	names := newSheetNamer(summarySheet)
	for _, c := range result.Checks {
		if err := e.writeCheck(f, styler, names.next(c.Name), c); err != nil {
			f.Close()
			return nil, err
		}
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(summarySheet); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

// --- Summary Sheet Logic ---

func (e *ExcelExporter) writeSummary(f *excelize.File, s *Styler, result *pipeline.Result) error {
	sheet := summarySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Value"}, s.HeaderStyle)
	row++

	overall := "PASS"
	if !result.Passed() {
		overall = "FAIL"
	}
	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Run ID", result.RunID},
		{"Data Sheet", result.DataSheet},
		{"Strategy", string(result.Strategy)},
		{"Total Rows", result.TotalRows},
		{"Result", overall},
	}
	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row-1), fmt.Sprintf("B%d", row-1), s.StatusStyle(result.Passed()))

	row += 2 // Spacer

	e.writeRow(f, sheet, row, []string{"Check", "Column", "Invalid Rows", "Status"}, s.HeaderStyle)
	row++
	for _, c := range result.Checks {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.Column)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.Invalid.Len())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), c.Status())
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), s.DefaultStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), s.StatusStyle(c.Passed()))
		row++
	}

	row += 2

	e.writeRow(f, sheet, row, []string{"Diagnostics"}, s.HeaderStyle)
	row++
	for _, line := range result.Diagnostics() {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "D", 15)

	return nil
}

// --- Check Sheet Logic ---

func (e *ExcelExporter) writeCheck(f *excelize.File, s *Styler, sheet string, c pipeline.CheckResult) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}

	headers := append([]string{"Row"}, c.Invalid.Columns...)
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	if c.Passed() {
		f.SetCellValue(sheet, "A2", "No issues found")
		f.SetCellStyle(sheet, "A2", "A2", s.PassStyle)
		return nil
	}

	for i, r := range c.Invalid.Rows {
		e.writeDataRow(f, s, sheet, i+2, r, c)
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", "A", 8)
	if len(headers) > 1 {
		f.SetColWidth(sheet, "B", last, 22)
	}

	return nil
}

func (e *ExcelExporter) writeDataRow(f *excelize.File, s *Styler, sheet string, row int, r model.Row, c pipeline.CheckResult) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheet, cell, r.Line())
	f.SetCellStyle(sheet, cell, cell, s.DefaultStyle)

	for i, col := range c.Invalid.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+2, row)
		if !r.IsNull(col) {
			f.SetCellValue(sheet, cell, r.Value(col))
		}

		style := s.DefaultStyle
		if col == c.Column {
			style = s.InvalidStyle
		}
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// sheetNamer produces unique, Excel-safe sheet names
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// next returns name made safe, cut to 31 characters and suffixed with
// ~N when an earlier sheet already took it. Sheet names compare
// case-insensitively in Excel.
func (n *sheetNamer) next(name string) string {
	base := strings.Trim(sheetNameReplacer.Replace(strings.TrimSpace(name)), "'")
	if base == "" {
		base = "Check"
	}

	candidate := truncateRunes(base, maxSheetNameLen)
	for i := 2; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("~%d", i)
		candidate = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
