package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"sheet-verify/internal/exporter"
	"sheet-verify/internal/exporter/jsonreport"
	"sheet-verify/internal/logger"
	"sheet-verify/internal/model"
	"sheet-verify/internal/workbook"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// handleVerify runs the pipeline over an uploaded workbook.
// Form fields: file (required), reference (optional), format (json|xlsx).
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Web.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, CodeTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.Web.MaxUploadMB))
			return
		}
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, errors.New("file too large or invalid form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatXLSX {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}

	bundle, err := s.readUpload(r, "file", s.cfg.Input.DataSheet)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	if bundle == nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, errors.New("no file provided"))
		return
	}

	ref, err := s.readUpload(r, "reference", s.cfg.Reference.Sheet)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	bundle.Merge(ref)

	result, err := s.runner.Run(bundle)
	if err != nil {
		status, code := classify(err)
		respondError(w, r, status, code, err)
		return
	}
	logger.Info("Run %s: %d rows, %d invalid", result.RunID, result.TotalRows, result.InvalidTotal())

	switch format {
	case formatXLSX:
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.Output.FileName+".xlsx"))
		if err := exporter.NewExcelExporter().Write(w, result); err != nil {
			logger.Error("Failed to stream excel report: %v", err)
		}
	default:
		writeJSON(w, http.StatusOK, jsonreport.NewReport(result))
	}
}

// readUpload reads one multipart file field; a csv upload becomes csvSheet.
// A missing field yields nil.
func (s *Server) readUpload(r *http.Request, field, csvSheet string) (*model.Bundle, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()

	return s.readWorkbook(file, header, csvSheet)
}

func (s *Server) readWorkbook(file multipart.File, header *multipart.FileHeader, csvSheet string) (*model.Bundle, error) {
	bundle, err := workbook.Read(file, header.Filename, workbook.Options{
		CSVSheet:  csvSheet,
		Encodings: s.cfg.Input.Encoding,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", header.Filename, err)
	}
	logger.Debug("Upload %s: sheets %v", header.Filename, bundle.Names())
	return bundle, nil
}
