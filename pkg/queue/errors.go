package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTask indicates a message was enqueued without a task name.
	ErrEmptyTask = errors.New("task name must not be empty")
	// ErrMalformedMessage indicates a stream entry lacks the task or payload fields.
	ErrMalformedMessage = errors.New("malformed queue message")
)

// PanicError reports a handler panic recovered by the worker.
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}
