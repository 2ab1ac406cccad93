package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline/pipelinetest"

	"github.com/xuri/excelize/v2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Output: config.OutputConfig{
			Dir:      t.TempDir(),
			FileName: "test_report",
		},
	}
}

func TestExcelExport(t *testing.T) {
	cfg := testConfig(t)
	result := pipelinetest.Result()

	exporter := NewExcelExporter()
	if err := exporter.Export(result, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	outputFile := cfg.GetOutputPath("xlsx")
	if _, err := os.Stat(outputFile); os.IsNotExist(err) {
		t.Fatal("Output file was not created")
	}

	f, err := excelize.OpenFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated Excel: %v", err)
	}
	defer f.Close()

	expectedSheets := []string{"Summary", "Invalid State_Region", "Invalid Township", "Invalid Service_delivery_point"}
	sheets := f.GetSheetList()
	if len(sheets) != len(expectedSheets) {
		t.Fatalf("Sheets = %v, expected %v", sheets, expectedSheets)
	}
	for i, name := range expectedSheets {
		if sheets[i] != name {
			t.Errorf("Sheet %d = %q, expected %q", i, sheets[i], name)
		}
	}

	rows, err := f.GetRows("Invalid Township")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 1+pipelinetest.InvalidChild {
		t.Fatalf("Expected header plus %d rows, got %d", pipelinetest.InvalidChild, len(rows))
	}
	if rows[0][0] != "Row" || rows[0][2] != "State_Region" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	// Bago/East sits on spreadsheet line 4, Yangon/Insein on line 5
	if rows[1][0] != "4" || rows[2][0] != "5" {
		t.Errorf("Row column should hold source lines, got %s and %s", rows[1][0], rows[2][0])
	}
	if rows[1][3] != "East" {
		t.Errorf("Expected raw Township value, got %q", rows[1][3])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	flat := flatten(summary)
	for _, want := range []string{result.RunID, "FAIL", "Rows with invalid Township: 2 [FAIL]"} {
		if !strings.Contains(flat, want) {
			t.Errorf("Summary missing %q", want)
		}
	}
}

func TestExcelExportPassingCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExcelExporter().Write(&buf, pipelinetest.PassingResult()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Failed to open streamed Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invalid State_Region")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "No issues found" {
		t.Errorf("Expected an explicit pass line, got %v", rows)
	}
}

func TestSheetNamer(t *testing.T) {
	n := newSheetNamer(summarySheet)

	tests := []struct {
		in       string
		expected string
	}{
		{"Invalid Township", "Invalid Township"},
		{"invalid township", "invalid township~2"},
		{"summary", "summary~2"},
		{"Invalid Service_delivery_point_code", "Invalid Service_delivery_point_"},
		{"Invalid Service_delivery_point_code_2", "Invalid Service_delivery_poin~2"},
		{"Bad: a/b [x]", "Bad_ a_b (x)"},
		{"   ", "Check"},
	}

	for _, tt := range tests {
		got := n.next(tt.in)
		if got != tt.expected {
			t.Errorf("next(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
		if len([]rune(got)) > maxSheetNameLen {
			t.Errorf("next(%q) = %q exceeds %d characters", tt.in, got, maxSheetNameLen)
		}
	}
}

func TestGetExporters(t *testing.T) {
	tests := []struct {
		formats  []string
		expected int
	}{
		{[]string{"excel", "json"}, 2},
		{[]string{"xlsx", "EXCEL", " excel "}, 1},
		{[]string{"html", "word", "docx", "json"}, 3},
		{[]string{"pdf"}, 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := GetExporters(tt.formats); len(got) != tt.expected {
			t.Errorf("GetExporters(%v) returned %d exporters, expected %d", tt.formats, len(got), tt.expected)
		}
	}
}

func TestExportAllFormats(t *testing.T) {
	cfg := testConfig(t)
	result := pipelinetest.Result()

	for _, e := range GetExporters([]string{"excel", "html", "word", "json"}) {
		if err := e.Export(result, cfg); err != nil {
			t.Fatalf("%T export failed: %v", e, err)
		}
	}

	for _, ext := range []string{"xlsx", "html", "docx", "json"} {
		path := filepath.Join(cfg.Output.Dir, "test_report."+ext)
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty %s report: %v", ext, err)
		}
	}
}

func flatten(rows [][]string) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
