package html

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// ReportData feeds the report template
type ReportData struct {
	RunID       string
	GeneratedAt string
	DataSheet   string
	Strategy    string
	TotalRows   int
	Passed      bool
	Checks      []CheckView
	Diagnostics []string
}

// CheckView is one check section of the page
type CheckView struct {
	Name    string
	Column  string
	Status  string
	Passed  bool
	Columns []string
	Rows    []RowView
}

// RowView is one invalid row; Line is the spreadsheet line
type RowView struct {
	Line  int
	Cells []CellView
}

// CellView marks the cell the check rejected
type CellView struct {
	Value   string
	Flagged bool
}

func (e *HTMLExporter) Export(result *pipeline.Result, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath("html")
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.Write(f, result)
}

// Write renders the report page to w
func (e *HTMLExporter) Write(w io.Writer, result *pipeline.Result) error {
	tmpl, err := template.New("verify-report").Funcs(template.FuncMap{
		"statusClass": statusClass,
	}).Parse(ReportTemplate)
	if err != nil {
		return err
	}

	if err := tmpl.Execute(w, NewReportData(result)); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

// NewReportData flattens a result for the template
func NewReportData(result *pipeline.Result) ReportData {
	data := ReportData{
		RunID:       result.RunID,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		DataSheet:   result.DataSheet,
		Strategy:    string(result.Strategy),
		TotalRows:   result.TotalRows,
		Passed:      result.Passed(),
		Diagnostics: result.Diagnostics(),
	}

	for _, c := range result.Checks {
		view := CheckView{
			Name:    c.Name,
			Column:  c.Column,
			Status:  c.Status(),
			Passed:  c.Passed(),
			Columns: c.Invalid.Columns,
		}
		for _, r := range c.Invalid.Rows {
			row := RowView{Line: r.Line(), Cells: make([]CellView, len(c.Invalid.Columns))}
			for i, col := range c.Invalid.Columns {
				row.Cells[i] = CellView{Value: r.Value(col), Flagged: col == c.Column}
			}
			view.Rows = append(view.Rows, row)
		}
		data.Checks = append(data.Checks, view)
	}

	return data
}

func statusClass(passed bool) string {
	if passed {
		return "status-pass"
	}
	return "status-fail"
}
