package engine

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// TaskSet is the set of task names a definition may reference.
type TaskSet map[string]struct{}

// NewTaskSet creates a TaskSet of names.
func NewTaskSet(names ...string) TaskSet {
	s := make(TaskSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s TaskSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the task names in ascending order.
func (s TaskSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Validate checks def for structural soundness. When supported is non-nil,
// every node task must be in it. Validate has no side effects; the first
// violation found is returned as a *ValidationError.
func Validate(def Definition, supported TaskSet) error {
	if len(def.Nodes) == 0 {
		return invalid(ErrInvalidDefinition, "", "Workflow must define a non-empty 'nodes' list")
	}

	ids := make(map[string]struct{}, len(def.Nodes))
	for _, n := range def.Nodes {
		if strings.TrimSpace(n.ID) == "" {
			return invalid(ErrInvalidDefinition, "", "Each workflow node requires a non-empty string 'id'")
		}
		if _, dup := ids[n.ID]; dup {
			return invalid(ErrDuplicateNode, n.ID, "Duplicate workflow node id '%s'", n.ID)
		}
		if n.Type != NodeTypeTask {
			return invalid(ErrInvalidDefinition, n.ID, "Unsupported node type '%s' for node '%s'", n.Type, n.ID)
		}
		if strings.TrimSpace(n.Task) == "" {
			return invalid(ErrInvalidDefinition, n.ID, "Node '%s' requires a non-empty string 'task'", n.ID)
		}
		if supported != nil && !supported.Has(n.Task) {
			return invalid(
				ErrUnsupportedTask, n.ID,
				"Node '%s' uses unsupported task '%s'. Supported tasks: [%s]",
				n.ID, n.Task, strings.Join(supported.Sorted(), ", "),
			)
		}
		ids[n.ID] = struct{}{}
	}

	for _, e := range def.Edges {
		_, from := ids[e.From]
		_, to := ids[e.To]
		if !from || !to {
			return invalid(ErrInvalidEdge, "", "Workflow edge references unknown node '%s' -> '%s'", e.From, e.To)
		}
	}

	_, err := Order(def)
	return err
}

// ValidateJSON parses raw and validates the result against supported.
func ValidateJSON(raw json.RawMessage, supported TaskSet) (Definition, error) {
	def, err := Parse(raw)
	if err != nil {
		return Definition{}, err
	}
	if err := Validate(def, supported); err != nil {
		return Definition{}, err
	}
	return def, nil
}
