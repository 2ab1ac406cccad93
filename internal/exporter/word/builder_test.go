package word

import (
	"archive/zip"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline/pipelinetest"
)

func TestExport(t *testing.T) {
	cfg := &config.Config{Output: config.OutputConfig{Dir: t.TempDir(), FileName: "report"}}
	result := pipelinetest.Result()

	if err := NewWordExporter().Export(result, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	zr, err := zip.OpenReader(cfg.GetOutputPath("docx"))
	if err != nil {
		t.Fatalf("Failed to open docx: %v", err)
	}
	defer zr.Close()

	var document string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open document.xml: %v", err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		document = string(b)
	}

	if document == "" {
		t.Fatal("document.xml missing from output")
	}
	for _, want := range []string{result.RunID, "Invalid Township", "Result: FAIL"} {
		if !strings.Contains(document, want) {
			t.Errorf("Document missing %q", want)
		}
	}
	if strings.Contains(document, placeholderContent) {
		t.Error("Content placeholder was not replaced")
	}
}

func TestBuildContent(t *testing.T) {
	content := buildContent(pipelinetest.PassingResult())

	if strings.Count(content, "No issues found") != 3 {
		t.Errorf("Expected every check to report no issues:\n%s", content)
	}
	if !strings.Contains(content, "[PASS]") {
		t.Error("Expected PASS markers")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Taunggyi", 40); got != "Taunggyi" {
		t.Errorf("truncate kept %q", got)
	}
	if got := truncate(strings.Repeat("á", 50), 10); len([]rune(got)) != 10 {
		t.Errorf("truncate(50 runes, 10) has %d runes", len([]rune(got)))
	}
}

type fakeDoc struct {
	replaced map[string]string
	failOn   string
}

func (d *fakeDoc) Replace(oldString, newString string, num int) error {
	if oldString == d.failOn {
		return errors.New("encode failed")
	}
	d.replaced[oldString] = newString
	return nil
}

func TestFillPlaceholders(t *testing.T) {
	result := pipelinetest.Result()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	doc := &fakeDoc{replaced: make(map[string]string)}
	if err := fillPlaceholders(doc, result, now); err != nil {
		t.Fatalf("fillPlaceholders failed: %v", err)
	}
	if doc.replaced[placeholderDate] != "2024-03-01 09:30" {
		t.Errorf("Date = %q", doc.replaced[placeholderDate])
	}
	if doc.replaced[placeholderResult] != "FAIL" {
		t.Errorf("Result = %q, expected FAIL", doc.replaced[placeholderResult])
	}
	if !strings.Contains(doc.replaced[placeholderContent], "Invalid Township") {
		t.Errorf("Content missing check listing: %q", doc.replaced[placeholderContent])
	}

	failing := &fakeDoc{replaced: make(map[string]string), failOn: placeholderContent}
	err := fillPlaceholders(failing, result, now)
	if err == nil {
		t.Fatal("Expected error when the content cannot be written")
	}
	if !strings.Contains(err.Error(), placeholderContent) {
		t.Errorf("Error should name the placeholder, got %v", err)
	}
}
