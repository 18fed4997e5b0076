package reconcile

import (
	"errors"
	"fmt"
)

const ErrCodeRosterEmpty = "roster_empty"

// InputError is a fatal input-shape problem found before reconciliation.
type InputError struct {
	Code    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInputError reports whether err is, or wraps, an *InputError.
func IsInputError(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}
