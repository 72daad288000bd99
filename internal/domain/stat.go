package domain

import (
	"encoding/json"
	"strconv"
)

// Stat is an aggregate that may be absent because no records contributed to it.
type Stat struct {
	Value float64
	Valid bool
}

// Absent is the zero Stat: no underlying data.
var Absent = Stat{}

// Present wraps a computed value.
func Present(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

// String formats the value with one decimal, or "absent".
func (s Stat) String() string {
	if !s.Valid {
		return "absent"
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// MarshalJSON encodes an absent Stat as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Absent
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Present(v)
	return nil
}
