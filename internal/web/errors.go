package web

import (
	"errors"
	"net/http"

	"sheet-verify/internal/logger"
	"sheet-verify/internal/model"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes returned to clients
const (
	CodeMissingSheet  = "missing_sheet"
	CodeMissingColumn = "missing_column"
	CodeBadRequest    = "bad_request"
	CodeTooLarge      = "too_large"
	CodeInternal      = "internal"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps a pipeline error to a status and client code
func classify(err error) (int, string) {
	var sheet *model.MissingSheetError
	var col *model.MissingColumnError
	switch {
	case errors.As(err, &sheet):
		return http.StatusUnprocessableEntity, CodeMissingSheet
	case errors.As(err, &col):
		return http.StatusUnprocessableEntity, CodeMissingColumn
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError logs the full error and returns its message and code.
// Internal errors return a generic message.
func respondError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	requestID := middleware.GetReqID(r.Context())
	logger.Error("HTTP %d %s %s (request %s): %v", status, r.Method, r.URL.Path, requestID, err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "verification failed"
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
