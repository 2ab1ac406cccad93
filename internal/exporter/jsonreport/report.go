// Package jsonreport renders verification results as JSON documents.
package jsonreport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline"
)

// Report is the JSON document of one run
type Report struct {
	RunID       string        `json:"run_id"`
	Passed      bool          `json:"passed"`
	DataSheet   string        `json:"data_sheet"`
	Strategy    string        `json:"strategy"`
	TotalRows   int           `json:"total_rows"`
	Checks      []CheckReport `json:"checks"`
	Diagnostics []string      `json:"diagnostics"`
}

type CheckReport struct {
	Name         string      `json:"name"`
	Kind         string      `json:"kind"`
	Column       string      `json:"column"`
	Passed       bool        `json:"passed"`
	InvalidCount int         `json:"invalid_count"`
	Columns      []string    `json:"columns"`
	Rows         []RowReport `json:"rows"`
}

// RowReport is one invalid row; Row is the spreadsheet line
type RowReport struct {
	Row    int               `json:"row"`
	Values map[string]string `json:"values"`
}

// NewReport converts a result to its JSON shape
func NewReport(result *pipeline.Result) Report {
	report := Report{
		RunID:       result.RunID,
		Passed:      result.Passed(),
		DataSheet:   result.DataSheet,
		Strategy:    string(result.Strategy),
		TotalRows:   result.TotalRows,
		Checks:      make([]CheckReport, 0, len(result.Checks)),
		Diagnostics: result.Diagnostics(),
	}

	for _, c := range result.Checks {
		cr := CheckReport{
			Name:         c.Name,
			Kind:         string(c.Kind),
			Column:       c.Column,
			Passed:       c.Passed(),
			InvalidCount: c.Invalid.Len(),
			Columns:      c.Invalid.Columns,
			Rows:         make([]RowReport, 0, c.Invalid.Len()),
		}
		for _, r := range c.Invalid.Rows {
			values := make(map[string]string, len(c.Invalid.Columns))
			for _, col := range c.Invalid.Columns {
				values[col] = r.Value(col)
			}
			cr.Rows = append(cr.Rows, RowReport{Row: r.Line(), Values: values})
		}
		report.Checks = append(report.Checks, cr)
	}

	return report
}

// JSONExporter writes the report to <output>.json
type JSONExporter struct {
	// Stateless
}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(result *pipeline.Result, cfg *config.Config) error {
	f, err := os.Create(cfg.GetOutputPath("json"))
	if err != nil {
		return err
	}
	defer f.Close()

	return Write(f, NewReport(result))
}

// Write encodes the report as indented JSON
func Write(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode json report: %w", err)
	}
	return nil
}
