package matching

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every InputError with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a request that cannot be processed at all.
type InputError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InputError) Unwrap() error {
	return e.Err
}
