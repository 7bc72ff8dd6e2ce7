// ABOUTME: Tests for the static gender map and nested gender references.
// ABOUTME: Unknown names and ids must be fatal lookups.
package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGenderID(t *testing.T) {
	tests := []struct {
		name    string
		want    int64
		wantErr bool
	}{
		{"male", 1, false},
		{"female", 2, false},
		{"Male", 1, false},
		{" FEMALE ", 2, false},
		{"other", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenderID(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownGender) {
					t.Fatalf("GenderID(%q) err = %v, want ErrUnknownGender", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenderID(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("GenderID(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestGenderSeedMatchesMap(t *testing.T) {
	if len(Genders) != len(GenderIDs) {
		t.Fatalf("seed has %d genders, map has %d", len(Genders), len(GenderIDs))
	}
	for _, g := range Genders {
		id, err := GenderID(g.Name)
		if err != nil {
			t.Fatalf("seeded gender %q not in map: %v", g.Name, err)
		}
		if id != g.ID {
			t.Errorf("gender %q: map id %d, seed id %d", g.Name, id, g.ID)
		}
	}
}

func TestGenderRefDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "object with id", input: `{"id": 2, "name": "Female"}`, want: 2},
		{name: "object with name only", input: `{"name": "male"}`, want: 1},
		{name: "bare id", input: `1`, want: 1},
		{name: "bare name", input: `"female"`, want: 2},
		{name: "unknown id", input: `{"id": 9}`, wantErr: true},
		{name: "unknown name", input: `"robot"`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref GenderRef
			if err := json.Unmarshal([]byte(tt.input), &ref); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := ref.Resolve()
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownGender) {
					t.Fatalf("Resolve err = %v, want ErrUnknownGender", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %d, want %d", got, tt.want)
			}
		})
	}
}
