// ABOUTME: Tests for the schema catalog and DDL rendering.
// ABOUTME: Checks dependency order and per-dialect statements.
package storage

import (
	"strings"
	"testing"
)

func TestSchemaDependencyOrder(t *testing.T) {
	seen := make(map[string]bool)
	for _, table := range Schema {
		for _, c := range table.Columns {
			if c.Ref != "" && c.Ref != table.Name && !seen[c.Ref] {
				t.Errorf("%s.%s references %s before it is created", table.Name, c.Name, c.Ref)
			}
		}
		for _, k := range table.Key {
			if _, ok := table.Column(k); !ok {
				t.Errorf("%s: key column %s not declared", table.Name, k)
			}
		}
		seen[table.Name] = true
	}
}

func TestSchemaTableCount(t *testing.T) {
	// Twelve lookups, exercises, six associations, seven owned children and runs.
	if got := len(TableNames()); got != 27 {
		t.Errorf("expected 27 tables, got %d", got)
	}
	if !mustTable(t, TableExercises).SelfReferencing() {
		t.Error("exercises should reference itself through variation_of")
	}
	if mustTable(t, TableMuscles).SelfReferencing() {
		t.Error("muscles.parent carries no constraint")
	}
}

func TestDDL(t *testing.T) {
	for _, d := range []Dialect{SQLite, Postgres, MySQL} {
		t.Run(string(d), func(t *testing.T) {
			stmts := DDL(d)
			joined := strings.Join(stmts, ";\n")
			if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+d.Quote(TableExerciseCategory)) {
				t.Error("missing exercise_categories table")
			}
			if !strings.Contains(joined, "FOREIGN KEY ("+d.Quote("variation_of")+") REFERENCES "+d.Quote(TableExercises)) {
				t.Error("missing variation_of foreign key")
			}
			if d == MySQL && strings.Contains(joined, "INDEX IF NOT EXISTS") {
				t.Error("mysql does not support CREATE INDEX IF NOT EXISTS")
			}
		})
	}
}
