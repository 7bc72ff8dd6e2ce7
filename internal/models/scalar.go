// ABOUTME: Lenient nullable scalars for the loosely-typed catalog payload.
// ABOUTME: Accept JSON null, numbers, booleans and numeric strings; bind as SQL values.
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Int is a nullable integer that also accepts numeric strings.
type Int struct {
	Int64 int64
	Valid bool
}

// NewInt returns a valid Int.
func NewInt(v int64) Int {
	return Int{Int64: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = NewInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse integer %s: %w", data, err)
	}
	// Only finite whole floats inside the int64 range are accepted.
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("parse integer %s: not a whole number in range", data)
	}
	*i = NewInt(int64(f))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return jsonNull, nil
	}
	return []byte(strconv.FormatInt(i.Int64, 10)), nil
}

// Value implements driver.Valuer.
func (i Int) Value() (driver.Value, error) {
	if !i.Valid {
		return nil, nil
	}
	return i.Int64, nil
}

// Float is a nullable float that also accepts numeric strings.
type Float struct {
	Float64 float64
	Valid   bool
}

// NewFloat returns a valid Float.
func NewFloat(v float64) Float {
	return Float{Float64: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse number %s: %w", data, err)
	}
	*f = NewFloat(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Float64)
}

// Value implements driver.Valuer.
func (f Float) Value() (driver.Value, error) {
	if !f.Valid {
		return nil, nil
	}
	return f.Float64, nil
}

// Bool is a nullable boolean that also accepts 0/1 and "true"/"false".
type Bool struct {
	Bool  bool
	Valid bool
}

// NewBool returns a valid Bool.
func NewBool(v bool) Bool {
	return Bool{Bool: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = Bool{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	raw := strings.ToLower(strings.Trim(string(data), `"`))
	switch raw {
	case "":
		return nil
	case "true", "1", "yes":
		*b = NewBool(true)
	case "false", "0", "no":
		*b = NewBool(false)
	default:
		return fmt.Errorf("parse boolean %s", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return jsonNull, nil
	}
	return json.Marshal(b.Bool)
}

// Value implements driver.Valuer.
func (b Bool) Value() (driver.Value, error) {
	if !b.Valid {
		return nil, nil
	}
	return b.Bool, nil
}
