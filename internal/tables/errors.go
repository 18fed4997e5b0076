package tables

import (
	"errors"
	"fmt"
)

const (
	ErrCodeRosterNameMissing   = "roster_name_missing"
	ErrCodeFeedbackNameMissing = "feedback_name_missing"
)

// ColumnError reports an input table without a required column. It is the
// only fatal input condition; everything else degrades per row.
type ColumnError struct {
	Table   string
	Column  string
	Headers []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s table has no %s column (headers: %q)", e.Table, e.Column, e.Headers)
}

// Code returns a stable machine-readable identifier for the error.
func (e *ColumnError) Code() string {
	return e.Table + "_" + e.Column + "_missing"
}

// Code extracts the error code from err, or "" if err is not a *ColumnError.
func Code(err error) string {
	var e *ColumnError
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}
