// ABOUTME: Read-side views of the stored catalog used by the CLI, export and MCP server.
// ABOUTME: These are assembled from the normalized tables, not decoded from the API.
package models

// Muscle roles in the order they are written.
const (
	RoleGeneral   = "general"
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
	RoleTertiary  = "tertiary"
)

// ExerciseSummary is one line of an exercise listing.
type ExerciseSummary struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Slug       string `json:"slug" yaml:"slug"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
}

// MuscleRef is a muscle attached to an exercise under one role.
type MuscleRef struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// CategoryRef is a category attached to an exercise.
type CategoryRef struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Primary bool   `json:"primary" yaml:"primary"`
}

// Step is one ordered instruction.
type Step struct {
	Order int64  `json:"order" yaml:"order"`
	Text  string `json:"text" yaml:"text"`
}

// ExerciseDetail is a fully assembled exercise.
type ExerciseDetail struct {
	ID              int64             `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	NameAlternative string            `json:"name_alternative,omitempty" yaml:"name_alternative,omitempty"`
	Slug            string            `json:"slug" yaml:"slug"`
	Status          string            `json:"status,omitempty" yaml:"status,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Difficulty      string            `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Force           string            `json:"force,omitempty" yaml:"force,omitempty"`
	Mechanic        string            `json:"mechanic,omitempty" yaml:"mechanic,omitempty"`
	NeedWarmup      bool              `json:"need_warmup" yaml:"need_warmup"`
	Featured        bool              `json:"featured" yaml:"featured"`
	Weight          *float64          `json:"weight,omitempty" yaml:"weight,omitempty"`
	Impact          *float64          `json:"impact,omitempty" yaml:"impact,omitempty"`
	VariationOf     *int64            `json:"variation_of,omitempty" yaml:"variation_of,omitempty"`
	Stub            bool              `json:"stub,omitempty" yaml:"stub,omitempty"`
	Muscles         []MuscleRef       `json:"muscles,omitempty" yaml:"muscles,omitempty"`
	Categories      []CategoryRef     `json:"categories,omitempty" yaml:"categories,omitempty"`
	Grips           []string          `json:"grips,omitempty" yaml:"grips,omitempty"`
	Joints          []int64           `json:"joints,omitempty" yaml:"joints,omitempty"`
	SeoTags         []string          `json:"seo_tags,omitempty" yaml:"seo_tags,omitempty"`
	Steps           []Step            `json:"steps,omitempty" yaml:"steps,omitempty"`
	TargetURLs      map[string]string `json:"target_urls,omitempty" yaml:"target_urls,omitempty"`
	URLs            map[string]string `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// MusclesByRole returns the attached muscles with the given role.
func (e *ExerciseDetail) MusclesByRole(role string) []MuscleRef {
	var out []MuscleRef
	for _, m := range e.Muscles {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string `json:"table" yaml:"table"`
	Rows  int64  `json:"rows" yaml:"rows"`
}
