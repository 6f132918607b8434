package postgres

import (
	"encoding/json"
	"fmt"
)

// jsonbOrNull marshals v for a nullable JSONB column. Typed nil pointers
// become SQL NULL rather than the string "null".
func jsonbOrNull(v any, isNil bool) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return b, nil
}

// unmarshalInto decodes a nullable JSONB column into dst. A NULL column
// leaves dst untouched.
func unmarshalInto(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}
