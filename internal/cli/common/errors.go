package common

import (
	"errors"

	"github.com/crmarques/srvinv/faults"
)

func ValidationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

// ReportedError marks a failure whose messages were already written, one per
// id, so the executor only turns it into an exit status.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	if e == nil || e.Err == nil {
		return "command failed"
	}
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}
