package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray stores a slice of strings as a JSON text column so the same
// model works against Postgres and the sqlite test driver.
type StringArray []string

// Value marshals the slice into its JSON text representation.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(a))
	if err != nil {
		return nil, fmt.Errorf("string array: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the JSON text representation back into the slice.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string array: unsupported source type %T", value)
	}

	if len(raw) == 0 {
		*a = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string array: %w", err)
	}
	*a = out
	return nil
}
