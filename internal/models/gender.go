// ABOUTME: Closed gender lookup used by URLs, long-form content and body-map images.
// ABOUTME: Resolves gender names and nested gender references to their fixed ids.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGender is returned when a gender name or id is outside the seeded set.
var ErrUnknownGender = errors.New("unknown gender")

// Gender ids as seeded into the genders table.
const (
	GenderMale   int64 = 1
	GenderFemale int64 = 2
)

// Gender is a row of the genders lookup table.
type Gender struct {
	ID       int64
	Name     string
	NameEnUS string
}

// Genders lists the seeded genders in id order.
var Genders = []Gender{
	{ID: GenderMale, Name: "Male", NameEnUS: "Male"},
	{ID: GenderFemale, Name: "Female", NameEnUS: "Female"},
}

// GenderIDs maps lower-cased gender names to ids.
var GenderIDs = map[string]int64{
	"male":   GenderMale,
	"female": GenderFemale,
}

// GenderID resolves a gender name, case-insensitively.
func GenderID(name string) (int64, error) {
	id, ok := GenderIDs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGender, name)
	}
	return id, nil
}

// IsValidGenderID reports whether id belongs to the seeded set.
func IsValidGenderID(id int64) bool {
	for _, g := range Genders {
		if g.ID == id {
			return true
		}
	}
	return false
}

// GenderRef is a gender reference nested in a record. The API sends either an
// object with id/name, a bare id, or a bare name.
type GenderRef struct {
	ID   Int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *GenderRef) UnmarshalJSON(data []byte) error {
	*g = GenderRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID       Int    `json:"id"`
			Name     string `json:"name"`
			NameEnUS string `json:"name_en_us"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode gender: %w", err)
		}
		g.ID = obj.ID
		g.Name = obj.Name
		if g.Name == "" {
			g.Name = obj.NameEnUS
		}
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode gender: %w", err)
		}
		g.Name = name
	default:
		if err := g.ID.UnmarshalJSON(data); err != nil {
			return fmt.Errorf("decode gender: %w", err)
		}
	}
	return nil
}

// Resolve returns the gender id, preferring an explicit id over the name.
func (g GenderRef) Resolve() (int64, error) {
	if g.ID.Valid {
		if !IsValidGenderID(g.ID.Int64) {
			return 0, fmt.Errorf("%w: id %d", ErrUnknownGender, g.ID.Int64)
		}
		return g.ID.Int64, nil
	}
	if g.Name == "" {
		return 0, fmt.Errorf("%w: empty reference", ErrUnknownGender)
	}
	return GenderID(g.Name)
}
