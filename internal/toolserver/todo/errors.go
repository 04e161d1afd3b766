package todo

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// InvalidStatusError reports a todo with an unknown status.
type InvalidStatusError struct {
	Index  int
	Status TodoStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("todo %d: invalid status %q", e.Index, e.Status)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// EmptyDescriptionError reports a todo without a description.
type EmptyDescriptionError struct {
	Index int
}

func (e *EmptyDescriptionError) Error() string {
	return fmt.Sprintf("todo %d: description cannot be empty", e.Index)
}

func (e *EmptyDescriptionError) Unwrap() error { return ErrEmptyDescription }
