package application

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login failures never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports every violated field of an input, keyed by field
// name. It is resolved at the boundary of each operation before any storage
// call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
