package validation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField carries T through a json/jsonb column. A SQL NULL scans to the
// zero value of T.
type JSONField[T any] struct {
	Data T
}

// Scan implements sql.Scanner.
func (j *JSONField[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan json field: unsupported source %T", value)
	}

	if err := json.Unmarshal(raw, &j.Data); err != nil {
		return fmt.Errorf("scan json field: %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (j JSONField[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("encode json field: %w", err)
	}
	return b, nil
}
