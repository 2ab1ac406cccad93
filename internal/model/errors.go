package model

import (
	"errors"
	"fmt"
	"strings"
)

// MissingColumnError reports an expected column absent from a table
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing column %q", e.Table, e.Column)
}

// MissingSheetError reports an expected sheet absent from a bundle
type MissingSheetError struct {
	Sheet     string
	Available []string
}

func (e *MissingSheetError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("sheet %q not found (workbook has no sheets)", e.Sheet)
	}
	return fmt.Sprintf("sheet %q not found (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

// IsPrecondition reports whether err is a missing sheet or missing column
func IsPrecondition(err error) bool {
	var col *MissingColumnError
	var sheet *MissingSheetError
	return errors.As(err, &col) || errors.As(err, &sheet)
}
