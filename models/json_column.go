package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores any JSON-serializable value in a jsonb column.
type JSONColumn[T any] struct {
	Data T
}

// NewJSONColumn wraps v for storage.
func NewJSONColumn[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{Data: v}
}

// Value implements driver.Valuer.
func (j JSONColumn[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (j *JSONColumn[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("json column: unsupported source type %T", src)
	}
	return json.Unmarshal(raw, &j.Data)
}

// GormDataType tells GORM's migrator which column type to create.
func (JSONColumn[T]) GormDataType() string {
	return "jsonb"
}
