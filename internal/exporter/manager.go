package exporter

import (
	"strings"

	"sheet-verify/internal/exporter/html"
	"sheet-verify/internal/exporter/jsonreport"
	"sheet-verify/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats.
// Unknown formats are skipped; the caller decides what an empty list means.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = canonicalFormat(fmtStr)
		if fmtStr == "" || seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "excel":
			exporters = append(exporters, NewExcelExporter())
		case "html":
			exporters = append(exporters, html.NewHTMLExporter())
		case "word":
			exporters = append(exporters, word.NewWordExporter())
		case "json":
			exporters = append(exporters, jsonreport.NewJSONExporter())
		}
	}

	return exporters
}

// canonicalFormat folds format aliases; unknown formats yield ""
func canonicalFormat(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excel", "xlsx":
		return "excel"
	case "html":
		return "html"
	case "word", "docx":
		return "word"
	case "json":
		return "json"
	}
	return ""
}
