package oerror

import "fmt"

// Error is returned or panicked with when a caller breaks a contract of the pathing engine, such as
// popping from an empty open set or building a path whose movements do not line up.
type Error struct {
	Err string
}

// New creates a new *Error from a format string.
func New(format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{Err: format}
	}
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return "pathing: " + e.Err
}
