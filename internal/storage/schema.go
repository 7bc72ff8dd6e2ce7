// ABOUTME: Relational schema for the exercise catalog, shared by every dialect.
// ABOUTME: Tables are listed in dependency order; DDL is rendered per dialect.
package storage

import (
	"fmt"
	"strings"
)

// Table names.
const (
	TableGenders          = "genders"
	TableDifficulty       = "difficulty"
	TableForces           = "forces"
	TableMechanics        = "mechanics"
	TableMuscles          = "muscles"
	TableGrips            = "grips"
	TableCategories       = "categories"
	TableMeasures         = "measures"
	TableDenominators     = "denominators"
	TableUnits            = "units"
	TableCalculationModes = "calculation_modes"
	TableJoints           = "joints"
	TableExercises        = "exercises"
	TableExerciseMuscles  = "exercise_muscles"
	TableExerciseGrips    = "exercise_grips"
	TableExerciseCategory = "exercise_categories"
	TableExerciseJoints   = "exercise_joints"
	TableMeasureUnits     = "measure_units"
	TableDenominatorUnits = "denominator_units"
	TableLongFormContent  = "long_form_content"
	TableCorrectSteps     = "correct_steps"
	TableSeoTags          = "seo_tags"
	TableTargetURLs       = "target_urls"
	TableURLs             = "urls"
	TableFullMeasures     = "full_measures"
	TableBodyMapImages    = "body_map_images"
	TableIngestRuns       = "ingest_runs"
)

// Kind is a portable column type.
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindBool
	KindReal
)

// Column describes one column. Ref names the referenced table (always its id).
type Column struct {
	Name    string
	Kind    Kind
	NotNull bool
	Ref     string
}

// Table describes one table of the schema.
type Table struct {
	Name    string
	Columns []Column
	Key     []string
	Indexes [][]string
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SelfReferencing reports whether a column references the table itself.
func (t Table) SelfReferencing() bool {
	for _, c := range t.Columns {
		if c.Ref == t.Name {
			return true
		}
	}
	return false
}

func (t Table) isKey(name string) bool {
	for _, k := range t.Key {
		if k == name {
			return true
		}
	}
	return false
}

// indexed reports whether name is part of the key or of a secondary index.
func (t Table) indexed(name string) bool {
	if t.isKey(name) {
		return true
	}
	for _, idx := range t.Indexes {
		for _, c := range idx {
			if c == name {
				return true
			}
		}
	}
	return false
}

func id() Column { return Column{Name: "id", Kind: KindInt, NotNull: true} }

func text(name string) Column { return Column{Name: name, Kind: KindText} }

func integer(name string) Column { return Column{Name: name, Kind: KindInt} }

func boolean(name string) Column { return Column{Name: name, Kind: KindBool} }

func number(name string) Column { return Column{Name: name, Kind: KindReal} }

func ref(name, to string) Column { return Column{Name: name, Kind: KindInt, Ref: to} }

// owner is a required reference, typically to the owning exercise.
func owner(name, to string) Column {
	return Column{Name: name, Kind: KindInt, NotNull: true, Ref: to}
}

func descriptorColumns() []Column {
	return []Column{id(), text("name"), text("url_name"), text("name_en_us"), text("description"), text("description_en_us")}
}

// Schema lists every table in dependency order.
var Schema = []Table{
	{Name: TableGenders, Key: []string{"id"}, Columns: []Column{id(), text("name"), text("name_en_us")}},
	{Name: TableDifficulty, Key: []string{"id"}, Columns: []Column{id(), text("name"), text("name_en_us")}},
	{Name: TableForces, Key: []string{"id"}, Columns: descriptorColumns()},
	{Name: TableMechanics, Key: []string{"id"}, Columns: descriptorColumns()},
	{Name: TableMuscles, Key: []string{"id"}, Columns: []Column{
		id(), text("name"), text("name_en_us"), text("scientific_name"), text("url_name"),
		text("description"), text("description_en_us"),
		integer("lft"), integer("rght"), integer("tree_id"), integer("level"), integer("parent"),
	}},
	{Name: TableGrips, Key: []string{"id"}, Columns: []Column{
		id(), text("name"), text("name_en_us"), text("description"), text("description_en_us"), text("url_name"),
	}},
	{Name: TableCategories, Key: []string{"id"}, Columns: []Column{
		id(), text("name"), text("name_en_us"), boolean("include_in_api"), boolean("include_in_workout_generator"),
		integer("display_order"), boolean("enable"), boolean("featured"), text("description"),
	}},
	{Name: TableMeasures, Key: []string{"id"}, Columns: []Column{id(), text("name")}},
	{Name: TableDenominators, Key: []string{"id"}, Columns: []Column{id(), text("name")}},
	{Name: TableUnits, Key: []string{"id"}, Columns: []Column{id(), text("name")}},
	{Name: TableCalculationModes, Key: []string{"id"}, Columns: []Column{id(), text("name"), text("description")}},
	{Name: TableJoints, Key: []string{"id"}, Columns: []Column{id()}},
	{Name: TableExercises, Key: []string{"id"}, Columns: []Column{
		id(), text("name"), text("name_en_us"), text("name_alternative"), text("slug"),
		boolean("need_warmup"), number("advanced_weight"), number("featured_weight"), number("weight"), number("impact"),
		text("description"), text("description_en_us"), boolean("use_youtube_links"),
		boolean("featured"), boolean("sponsored_link"), integer("exercise_to_copy"),
		text("status"), text("sharing_hash"), ref("variation_of", TableExercises),
		ref("difficulty_id", TableDifficulty), ref("force_id", TableForces), ref("mechanic_id", TableMechanics),
	}, Indexes: [][]string{{"slug"}, {"variation_of"}}},
	{Name: TableExerciseMuscles, Key: []string{"exercise_id", "muscle_id"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("muscle_id", TableMuscles),
		boolean("is_general"), boolean("is_primary"), boolean("is_secondary"), boolean("is_tertiary"),
	}, Indexes: [][]string{{"muscle_id"}}},
	{Name: TableExerciseGrips, Key: []string{"exercise_id", "grip_id"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("grip_id", TableGrips),
	}},
	{Name: TableExerciseCategory, Key: []string{"exercise_id", "category_id", "is_primary", "is_additional"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("category_id", TableCategories),
		{Name: "is_primary", Kind: KindBool, NotNull: true}, {Name: "is_additional", Kind: KindBool, NotNull: true},
	}, Indexes: [][]string{{"category_id"}}},
	{Name: TableExerciseJoints, Key: []string{"exercise_id", "joint_id"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("joint_id", TableJoints),
	}},
	{Name: TableMeasureUnits, Key: []string{"measure_id", "unit_id"}, Columns: []Column{
		owner("measure_id", TableMeasures), owner("unit_id", TableUnits),
	}},
	{Name: TableDenominatorUnits, Key: []string{"denominator_id", "unit_id"}, Columns: []Column{
		owner("denominator_id", TableDenominators), owner("unit_id", TableUnits),
	}},
	{Name: TableLongFormContent, Key: []string{"id"}, Columns: []Column{
		id(), owner("exercise_id", TableExercises), ref("gender_id", TableGenders),
	}, Indexes: [][]string{{"exercise_id"}}},
	{Name: TableCorrectSteps, Key: []string{"id"}, Columns: []Column{
		id(), owner("exercise_id", TableExercises), integer("step_order"), text("text"), text("text_en_us"),
	}, Indexes: [][]string{{"exercise_id"}}},
	{Name: TableSeoTags, Key: []string{"exercise_id", "tag"}, Columns: []Column{
		owner("exercise_id", TableExercises), {Name: "tag", Kind: KindText, NotNull: true},
	}},
	{Name: TableTargetURLs, Key: []string{"exercise_id", "gender_id"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("gender_id", TableGenders), text("url"),
	}},
	{Name: TableURLs, Key: []string{"exercise_id", "gender_id"}, Columns: []Column{
		owner("exercise_id", TableExercises), owner("gender_id", TableGenders), text("url"),
	}},
	{Name: TableFullMeasures, Key: []string{"id"}, Columns: []Column{
		id(), owner("exercise_id", TableExercises), ref("measure_id", TableMeasures),
		ref("denominator_id", TableDenominators), ref("calculation_mode_id", TableCalculationModes),
	}, Indexes: [][]string{{"exercise_id"}}},
	{Name: TableBodyMapImages, Key: []string{"id"}, Columns: []Column{
		id(), owner("exercise_id", TableExercises), ref("gender_id", TableGenders), text("kind"), boolean("dark_mode"),
	}, Indexes: [][]string{{"exercise_id"}}},
	{Name: TableIngestRuns, Key: []string{"id"}, Columns: []Column{
		{Name: "id", Kind: KindText, NotNull: true}, text("start_url"), {Name: "status", Kind: KindText, NotNull: true},
		integer("pages"), integer("records"), text("error"), text("started_at"), text("finished_at"),
	}, Indexes: [][]string{{"started_at"}}},
}

// LookupTable returns the schema entry for name.
func LookupTable(name string) (Table, bool) {
	for _, t := range Schema {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns every table name in dependency order.
func TableNames() []string {
	names := make([]string, len(Schema))
	for i, t := range Schema {
		names[i] = t.Name
	}
	return names
}

// DDL renders the full schema as CREATE statements for dialect d.
func DDL(d Dialect) []string {
	var stmts []string
	for _, t := range Schema {
		stmts = append(stmts, createTable(d, t))
		for _, idx := range t.Indexes {
			stmts = append(stmts, createIndex(d, t, idx))
		}
	}
	return stmts
}

func createTable(d Dialect, t Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.Quote(t.Name))
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "\t%s %s", d.Quote(c.Name), d.ColumnType(c, t.indexed(c.Name)))
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(&b, "\tPRIMARY KEY (%s)", d.quoteList(t.Key))
	for _, c := range t.Columns {
		if c.Ref == "" {
			continue
		}
		fmt.Fprintf(&b, ",\n\tFOREIGN KEY (%s) REFERENCES %s(%s)", d.Quote(c.Name), d.Quote(c.Ref), d.Quote("id"))
	}
	b.WriteString("\n)")
	return b.String()
}

func createIndex(d Dialect, t Table, cols []string) string {
	name := fmt.Sprintf("idx_%s_%s", t.Name, strings.Join(cols, "_"))
	if d == MySQL {
		// MySQL has no IF NOT EXISTS for indexes; Provision tolerates duplicates.
		return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", d.Quote(name), d.Quote(t.Name), d.quoteList(cols))
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", d.Quote(name), d.Quote(t.Name), d.quoteList(cols))
}
