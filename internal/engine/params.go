package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParamError reports a node param of the wrong type.
type ParamError struct {
	Key  string
	Want string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("param '%s' must be %s", e.Key, e.Want)
}

func (e *ParamError) Kind() string { return "ValueError" }

// Params holds node-local overrides. Accessors report whether a key was set
// to a usable value of the requested type.
type Params map[string]any

// String returns a non-blank string value, trimmed.
func (p Params) String(key string) (string, bool) {
	s, ok := p[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// StringPtr returns a string value, including an empty one.
func (p Params) StringPtr(key string) (*string, bool) {
	s, ok := p[key].(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

// Strings returns a list of strings. Non-string elements are an error.
func (p Params) Strings(key string) ([]string, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false, nil
	}

	switch list := v.(type) {
	case []string:
		return list, true, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false, &ParamError{Key: key, Want: "a list of strings"}
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, false, &ParamError{Key: key, Want: "a list of strings"}
}

// UUID returns a UUID given as a string.
func (p Params) UUID(key string) (*uuid.UUID, bool, error) {
	s, ok := p.String(key)
	if !ok {
		return nil, false, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false, &ParamError{Key: key, Want: "a uuid"}
	}
	return &id, true, nil
}

// Map returns a nested object.
func (p Params) Map(key string) (map[string]any, bool) {
	m, ok := p[key].(map[string]any)
	return m, ok
}
