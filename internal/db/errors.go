package db

import (
	"github.com/and161185/wzs-web/internal/errs"
)

// ExecError is the single failure kind of the port. Summary is a stable
// one-line description that includes the driver code and SQL state when known.
type ExecError struct {
	Op      string
	Summary string
	Err     error
}

func (e *ExecError) Error() string {
	msg := errs.ErrDB.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Summary != "" {
		msg += ": " + e.Summary
	}
	return msg
}

// Unwrap exposes both errs.ErrDB and the driver error.
func (e *ExecError) Unwrap() []error {
	if e.Err == nil {
		return []error{errs.ErrDB}
	}
	return []error{errs.ErrDB, e.Err}
}

// ColumnError reports a missing or mistyped cell in a Row.
type ColumnError struct {
	Column string
	Reason string
}

func (e *ColumnError) Error() string { return "column `" + e.Column + "` " + e.Reason }

// Unwrap lets callers match column failures with errs.ErrDB.
func (e *ColumnError) Unwrap() error { return errs.ErrDB }
