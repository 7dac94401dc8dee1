package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks malformed event-log data. Replay recovers from it by
	// ending the affected run early.
	ErrDecode = errors.New("malformed event log")

	// ErrReportNotFound is returned when a stored report does not exist.
	ErrReportNotFound = errors.New("report not found")
)

// DecodeError describes a malformed event-log row.
type DecodeError struct {
	Path   string
	Row    int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode row %d: %s", e.Row, e.Reason)
	}

	return fmt.Sprintf("decode %s row %d: %s", e.Path, e.Row, e.Reason)
}

// Unwrap lets errors.Is match ErrDecode.
func (e *DecodeError) Unwrap() error { return ErrDecode }
