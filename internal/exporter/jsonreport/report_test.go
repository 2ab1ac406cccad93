package jsonreport

import (
	"encoding/json"
	"os"
	"testing"

	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline/pipelinetest"
)

func TestExport(t *testing.T) {
	cfg := &config.Config{Output: config.OutputConfig{Dir: t.TempDir(), FileName: "report"}}
	result := pipelinetest.Result()

	if err := NewJSONExporter().Export(result, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	content, err := os.ReadFile(cfg.GetOutputPath("json"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var report Report
	if err := json.Unmarshal(content, &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if report.RunID != result.RunID || report.Passed {
		t.Errorf("Unexpected header: run %s passed %v", report.RunID, report.Passed)
	}
	if report.TotalRows != pipelinetest.TotalRows {
		t.Errorf("TotalRows = %d, expected %d", report.TotalRows, pipelinetest.TotalRows)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("Expected 3 checks, got %d", len(report.Checks))
	}

	child := report.Checks[1]
	if child.Kind != "child" || child.InvalidCount != pipelinetest.InvalidChild {
		t.Errorf("Child check = %+v", child)
	}
	if child.Rows[0].Row != 4 || child.Rows[0].Values["Township"] != "East" {
		t.Errorf("First invalid child row = %+v", child.Rows[0])
	}
}

func TestNewReportPassing(t *testing.T) {
	report := NewReport(pipelinetest.PassingResult())

	if !report.Passed {
		t.Error("Expected passing report")
	}
	for _, c := range report.Checks {
		if !c.Passed || c.InvalidCount != 0 || c.Rows == nil {
			t.Errorf("Check %s should be an explicit empty pass, got %+v", c.Name, c)
		}
	}
}
