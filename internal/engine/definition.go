// Package engine validates, orders, and executes workflow definitions.
//
// A definition is a DAG of task nodes. Validate checks its structure against
// the registered task set, Order schedules it with Kahn's algorithm, and the
// Executor runs the nodes one at a time, threading an ExecutionContext
// through the node handlers and recording a ledger on the parent job.
package engine

import (
	"bytes"
	"encoding/json"
)

// NodeTypeTask is the only supported node type.
const NodeTypeTask = "task"

// Node is one task step of a workflow.
type Node struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Task   string `json:"task"`
	Params Params `json:"params,omitempty"`
}

// Edge orders From before To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Definition is the DAG stored on a workflow.
type Definition struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges,omitempty"`
}

// Parse decodes a stored definition. Shape errors (a non-list nodes value,
// a node that is not an object, a non-string id or edge endpoint) are
// reported as *ValidationError rather than decode failures. An omitted node
// type is left empty and rejected by Validate.
func Parse(raw json.RawMessage) (Definition, error) {
	var def Definition

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return def, invalid(ErrInvalidDefinition, "", "Workflow definition must be an object")
	}

	var nodes []json.RawMessage
	if err := json.Unmarshal(doc["nodes"], &nodes); err != nil || len(nodes) == 0 {
		return def, invalid(ErrInvalidDefinition, "", "Workflow must define a non-empty 'nodes' list")
	}

	var edges []json.RawMessage
	if v, ok := doc["edges"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &edges); err != nil {
			return def, invalid(ErrInvalidDefinition, "", "Workflow 'edges' must be a list")
		}
	}

	def.Nodes = make([]Node, 0, len(nodes))
	for _, raw := range nodes {
		n, err := parseNode(raw)
		if err != nil {
			return Definition{}, err
		}
		def.Nodes = append(def.Nodes, n)
	}

	for _, raw := range edges {
		e, err := parseEdge(raw)
		if err != nil {
			return Definition{}, err
		}
		def.Edges = append(def.Edges, e)
	}

	return def, nil
}

func parseNode(raw json.RawMessage) (Node, error) {
	var n Node

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return n, invalid(ErrInvalidDefinition, "", "Each workflow node must be an object")
	}

	if !stringField(fields, "id", &n.ID) {
		return n, invalid(ErrInvalidDefinition, "", "Each workflow node requires a non-empty string 'id'")
	}

	if v, ok := fields["type"]; ok && !stringField(fields, "type", &n.Type) {
		return n, invalid(ErrInvalidDefinition, n.ID, "Unsupported node type '%s' for node '%s'", bytes.TrimSpace(v), n.ID)
	}

	if !stringField(fields, "task", &n.Task) {
		return n, invalid(ErrInvalidDefinition, n.ID, "Node '%s' requires a non-empty string 'task'", n.ID)
	}

	if v, ok := fields["params"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &n.Params); err != nil {
			return n, invalid(ErrInvalidDefinition, n.ID, "Node '%s' params must be an object", n.ID)
		}
	}

	return n, nil
}

func parseEdge(raw json.RawMessage) (Edge, error) {
	var e Edge

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return e, invalid(ErrInvalidDefinition, "", "Each workflow edge must be an object")
	}

	if !stringField(fields, "from", &e.From) || !stringField(fields, "to", &e.To) {
		return e, invalid(ErrInvalidEdge, "", "Workflow edges require string 'from' and 'to'")
	}

	return e, nil
}

// stringField decodes fields[key] into dst and reports whether it held a string.
func stringField(fields map[string]json.RawMessage, key string, dst *string) bool {
	v, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(v, dst) == nil && !isNull(v)
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
