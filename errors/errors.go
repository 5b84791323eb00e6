package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Source string
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("%s: parse error at line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: parse error at line %d: %v (record: %v)", e.Source, e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Fixture errors
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidDate       = fmt.Errorf("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimestamp  = fmt.Errorf("invalid timestamp, expected RFC3339")
	ErrInvalidDateRange  = fmt.Errorf("start date must be on or before end date")
	ErrInvalidLeaveType  = fmt.Errorf("invalid leave type")
	ErrInvalidStatus     = fmt.Errorf("invalid request status")
	ErrInvalidRecord     = fmt.Errorf("invalid record")
	ErrDuplicateID       = fmt.Errorf("duplicate id")
)

// Store errors
var (
	ErrEmployeeNotFound       = fmt.Errorf("employee not found")
	ErrRequestNotFound        = fmt.Errorf("leave request not found")
	ErrRequestAlreadyReviewed = fmt.Errorf("leave request already reviewed")
	ErrReviewerRequired       = fmt.Errorf("reviewer is required")
)
