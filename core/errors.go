package core

import "fmt"

// ProgrammingError marks an assertion-class failure: a misuse of the API by
// the caller (a zero queue size, a negative bound, an out-of-range stream
// index) rather than a data-rate condition. These are fail-fast and are
// never recovered from inside a synchronizer.
type ProgrammingError struct {
	Msg string
}

func (e *ProgrammingError) Error() string {
	return "message-filters: programming error: " + e.Msg
}

// NewProgrammingError builds a ProgrammingError with a formatted message,
// mirroring the fmt.Errorf convention the rest of this module uses for
// ordinary errors.
func NewProgrammingError(format string, args ...interface{}) *ProgrammingError {
	return &ProgrammingError{Msg: fmt.Sprintf(format, args...)}
}

// ErrStreamIndexOutOfRange is returned when Add is called with a stream
// index outside [0, N).
func ErrStreamIndexOutOfRange(i, n int) error {
	return NewProgrammingError("stream index %d out of range [0, %d)", i, n)
}
