package repository

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type jsonColumn struct {
	dest any
}

// JSONColumn returns a sql.Scanner that decodes a json or jsonb column into dest.
// NULL columns leave dest unchanged.
func JSONColumn(dest any) sql.Scanner {
	return &jsonColumn{dest: dest}
}

func (c *jsonColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json column: unsupported source type %T", src)
	}

	if len(data) == 0 {
		return nil
	}

	if raw, ok := c.dest.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}

	return json.Unmarshal(data, c.dest)
}

type jsonArg struct {
	value any
}

// JSONArg wraps v as a query argument encoded as JSON text.
// A nil v binds SQL NULL.
func JSONArg(v any) driver.Valuer {
	return jsonArg{value: v}
}

func (a jsonArg) Value() (driver.Value, error) {
	if isNilValue(a.value) {
		return nil, nil
	}
	if raw, ok := a.value.(json.RawMessage); ok {
		return string(raw), nil
	}
	data, err := json.Marshal(a.value)
	if err != nil {
		return nil, fmt.Errorf("encode json argument: %w", err)
	}
	return string(data), nil
}

func isNilValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case json.RawMessage:
		return t == nil
	case map[string]any:
		return t == nil
	}
	return false
}
