package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

// StringList is a custom type for handling TEXT[] columns in PostgreSQL
type StringList []string

// Value implements the driver.Valuer interface
func (a StringList) Value() (driver.Value, error) {
	if a == nil {
		return pq.Array([]string{}).Value()
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}

// jsonbValue marshals a Go value into a JSONB column
func jsonbValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

// jsonbScan unmarshals a JSONB column into a Go value
func jsonbScan(src, dest interface{}) error {
	if src == nil {
		return nil
	}
	bytes, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, dest)
}
