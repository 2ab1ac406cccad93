package word

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sheet-verify/internal/config"
	"sheet-verify/internal/model"
	"sheet-verify/internal/pipeline"

	"github.com/nguyenthenguyen/docx"
)

// maxListedRows caps the rows listed per check; the Excel report has them all
const maxListedRows = 200

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(result *pipeline.Result, cfg *config.Config) error {
	templateBytes, err := buildTemplate()
	if err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}

	// docx reads from a path, so stage the template in a temp file
	tmpFile, err := os.CreateTemp("", "sheet-verify-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	if err := fillPlaceholders(doc, result, time.Now()); err != nil {
		return err
	}

	if err := doc.WriteToFile(cfg.GetOutputPath("docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// replacer is the part of *docx.Docx the report needs
type replacer interface {
	Replace(oldString, newString string, num int) error
}

// fillPlaceholders writes the report fields into doc. The docx library
// handles the XML encoding.
func fillPlaceholders(doc replacer, result *pipeline.Result, now time.Time) error {
	status := "PASS"
	if !result.Passed() {
		status = "FAIL"
	}

	fields := []struct{ placeholder, value string }{
		{placeholderRunID, result.RunID},
		{placeholderDate, now.Format("2006-01-02 15:04")},
		{placeholderSheet, fmt.Sprintf("%s (%d rows, %s strategy)", result.DataSheet, result.TotalRows, result.Strategy)},
		{placeholderResult, status},
		{placeholderContent, buildContent(result)},
	}
	for _, f := range fields {
		if err := doc.Replace(f.placeholder, f.value, -1); err != nil {
			return fmt.Errorf("failed to fill %s: %w", f.placeholder, err)
		}
	}
	return nil
}

// buildContent renders the check listings as plain text
func buildContent(result *pipeline.Result) string {
	var sb strings.Builder

	sb.WriteString("CHECKS\n")
	for _, c := range result.Checks {
		sb.WriteString(fmt.Sprintf("  • %s: %d invalid [%s]\n", c.Name, c.Invalid.Len(), c.Status()))
	}
	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	for i, c := range result.Checks {
		buildCheckText(&sb, c)
		if i < len(result.Checks)-1 {
			sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}

	if lines := result.Diagnostics(); len(lines) > 0 {
		sb.WriteString("\nDIAGNOSTICS\n")
		for _, line := range lines {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

func buildCheckText(sb *strings.Builder, c pipeline.CheckResult) {
	sb.WriteString(fmt.Sprintf("%s (column %s)\n", c.Name, c.Column))

	if c.Passed() {
		sb.WriteString("No issues found\n")
		return
	}

	sb.WriteString(fmt.Sprintf("%-6s %s\n", "Row", strings.Join(c.Invalid.Columns, " | ")))
	for i, r := range c.Invalid.Rows {
		if i == maxListedRows {
			sb.WriteString(fmt.Sprintf("... %d more rows\n", c.Invalid.Len()-maxListedRows))
			break
		}
		sb.WriteString(fmt.Sprintf("%-6d %s\n", r.Line(), rowText(r, c.Invalid.Columns)))
	}
}

func rowText(r model.Row, columns []string) string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = truncate(r.Value(col), 40)
	}
	return strings.Join(values, " | ")
}

// truncate truncates a string to a maximum number of characters
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
