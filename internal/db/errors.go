package db

import "errors"

var ErrNotFound = errors.New("task not found")

// ValidationError reports input the store refuses before touching the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure of the underlying engine. Its message is the
// driver's own so callers can surface it as is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SchemaError is returned by Open when the tasks table cannot be created.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Err.Error()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Outcome is the result of a write that targets a single row by id.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeApplied
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

func outcomeFromRows(rows int64) Outcome {
	if rows == 0 {
		return OutcomeNotFound
	}
	return OutcomeApplied
}
