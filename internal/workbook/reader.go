// Package workbook reads xlsx and csv files into sheet bundles.
package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sheet-verify/internal/logger"
	"sheet-verify/internal/model"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls how files are decoded
type Options struct {
	// CSVSheet names the single sheet a csv file becomes
	CSVSheet string
	// Encodings are tried in order when a csv file is not valid UTF-8
	Encodings []string
}

// Open reads every sheet of the workbook at path
func Open(path string, opts Options) (*model.Bundle, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		defer f.Close()
		return readWorkbook(f)
	case ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return readCSV(data, opts)
	default:
		return nil, fmt.Errorf("unsupported file type %q: %s", ext, path)
	}
}

// Read reads a workbook from r. name is the original file name and only
// its extension is used.
func Read(r io.Reader, name string, opts Options) (*model.Bundle, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return readCSV(data, opts)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*model.Bundle, error) {
	bundle := model.NewBundle()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		table := buildTable(sheet, rows)
		logger.Debug("Read sheet %s: %d columns, %d rows", sheet, len(table.Columns), table.Len())
		bundle.Add(table)
	}

	return bundle, nil
}

func readCSV(data []byte, opts Options) (*model.Bundle, error) {
	text, err := decode(bytes.TrimPrefix(data, utf8BOM), opts.Encodings)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	name := opts.CSVSheet
	if name == "" {
		name = "Sheet1"
	}
	table := buildTable(name, rows)
	logger.Debug("Read csv as sheet %s: %d columns, %d rows", name, len(table.Columns), table.Len())
	return model.NewBundle(table), nil
}

// decode returns data as UTF-8, trying each encoding hint in order
func decode(data []byte, hints []string) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, hint := range hints {
		enc, err := htmlindex.Get(hint)
		if err != nil {
			logger.Warn("Unknown encoding hint %q: %v", hint, err)
			continue
		}
		if name, _ := htmlindex.Name(enc); name == "utf-8" {
			continue
		}
		out, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			logger.Debug("Decoding as %s failed: %v", hint, err)
			continue
		}
		logger.Debug("Decoded csv as %s", hint)
		return string(out), nil
	}

	return "", fmt.Errorf("csv is not valid UTF-8 and no encoding hint applied (tried %v)", hints)
}

// buildTable turns raw rows into a table. Row 1 is the header; every later
// row keeps its position so row identity matches the source file.
func buildTable(name string, rows [][]string) *model.Table {
	if len(rows) == 0 {
		return model.NewTable(name, nil)
	}

	table := model.NewTable(name, headers(rows[0]))
	for _, row := range rows[1:] {
		table.Append(row...)
	}
	return table
}

func headers(row []string) []string {
	cols := make([]string, len(row))
	seen := make(map[string]int, len(row))

	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
		} else {
			seen[h] = 1
		}
		cols[i] = h
	}
	return cols
}
