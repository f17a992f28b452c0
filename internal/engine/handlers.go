package engine

import (
	"context"
	"encoding/json"

	"github.com/JaimeStill/trendr/internal/jobs"
)

// Handler runs one workflow node. It may read and update exec, must create
// its child job in the run's workspace, and returns the result recorded in
// the ledger.
type Handler interface {
	Handle(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error) {
	return f(ctx, exec, params, parent)
}

// Handlers maps task names to node handlers. The registered names are the
// task set definitions are validated against.
type Handlers map[string]Handler

// Tasks returns the registered task names.
func (h Handlers) Tasks() TaskSet {
	s := make(TaskSet, len(h))
	for name := range h {
		s[name] = struct{}{}
	}
	return s
}

// Validate parses and validates a stored definition against the registered tasks.
func (h Handlers) Validate(definition json.RawMessage) error {
	_, err := ValidateJSON(definition, h.Tasks())
	return err
}
