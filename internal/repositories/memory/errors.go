package memory

import "fmt"

// Error implements repositories.RepositoryError for the in-memory stores.
type Error struct {
	op       string
	message  string
	notFound bool
	conflict bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %s", e.op, e.message)
	}
	return e.message
}

// IsNotFound reports whether the error represents a missing record.
func (e *Error) IsNotFound() bool { return e != nil && e.notFound }

// IsConflict reports whether the error represents a conflicting write.
func (e *Error) IsConflict() bool { return e != nil && e.conflict }

// IsUnavailable always reports false; the in-memory stores cannot be down.
func (e *Error) IsUnavailable() bool { return false }

func notFoundError(op, message string) *Error {
	return &Error{op: op, message: message, notFound: true}
}
