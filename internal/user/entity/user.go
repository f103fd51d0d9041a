package entity

import (
	"bytes"
	"encoding/json"
)

// Record is one row of the users table as returned by SELECT *. Columns keeps
// the order reported by the driver so the JSON form lists fields the way the
// table defines them; Values is keyed by column name.
type Record struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value of column name, or nil.
func (r Record) Get(name string) any {
	return r.Values[name]
}

// MarshalJSON encodes the record as an object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UserInput carries the writable columns for create and update.
type UserInput struct {
	Name  string
	Email string
}
