package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON stores any JSON-serializable value in a jsonb column
type JSON[T any] struct {
	Data T
}

// NewJSON wraps v for storage
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v}
}

// Value implements driver.Valuer interface for GORM to write as JSONB
func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (j *JSON[T]) Scan(value any) error {
	var zero T
	if value == nil {
		j.Data = zero
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSON column: unsupported type")
	}

	if len(bytes) == 0 {
		j.Data = zero
		return nil
	}
	return json.Unmarshal(bytes, &j.Data)
}

// StringList is a jsonb array of strings
type StringList = JSON[[]string]

// JSONMap is a jsonb object with arbitrary values
type JSONMap = JSON[map[string]any]

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
