// ABOUTME: Read queries over the normalized catalog: table counts, listings and detail.
// ABOUTME: Used by the CLI, the exporter and the MCP server.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/exercises/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ListFilter narrows ListExercises. Text filters are case-insensitive substrings.
type ListFilter struct {
	Search   string
	Muscle   string
	Category string
	Limit    int
}

// Stats returns the row count of every table in schema order.
func (d *DB) Stats(ctx context.Context) ([]models.TableCount, error) {
	counts := make([]models.TableCount, 0, len(Schema))
	for _, t := range Schema {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.dialect.Quote(t.Name))
		if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.Name, err)
		}
		counts = append(counts, models.TableCount{Table: t.Name, Rows: n})
	}
	return counts, nil
}

// Count returns the row count of one table.
func (d *DB) Count(ctx context.Context, table string) (int64, error) {
	if _, ok := LookupTable(table); !ok {
		return 0, fmt.Errorf("count %s: unknown table", table)
	}
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.dialect.Quote(table))
	if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ListExercises returns fetched exercises ordered by name. Stub rows are skipped.
func (d *DB) ListExercises(ctx context.Context, filter ListFilter) ([]*models.ExerciseSummary, error) {
	query := `
		SELECT e.id, COALESCE(e.name, ''), COALESCE(e.slug, ''), COALESCE(df.name, ''),
			COALESCE((
				SELECT c.name FROM exercise_categories ec
				JOIN categories c ON c.id = ec.category_id
				WHERE ec.exercise_id = e.id AND ec.is_primary = ?
				ORDER BY c.id LIMIT 1
			), '')
		FROM exercises e
		LEFT JOIN difficulty df ON df.id = e.difficulty_id
		WHERE e.name IS NOT NULL`
	args := []any{true}

	if filter.Search != "" {
		query += ` AND (LOWER(e.name) LIKE ? OR LOWER(e.slug) LIKE ?)`
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}
	if filter.Muscle != "" {
		query += `
		AND EXISTS (
			SELECT 1 FROM exercise_muscles em
			JOIN muscles m ON m.id = em.muscle_id
			WHERE em.exercise_id = e.id AND LOWER(m.name) LIKE ?
		)`
		args = append(args, likePattern(filter.Muscle))
	}
	if filter.Category != "" {
		query += `
		AND EXISTS (
			SELECT 1 FROM exercise_categories ec
			JOIN categories c ON c.id = ec.category_id
			WHERE ec.exercise_id = e.id AND LOWER(c.name) LIKE ?
		)`
		args = append(args, likePattern(filter.Category))
	}

	query += ` ORDER BY e.name, e.id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.ExerciseSummary
	for rows.Next() {
		var s models.ExerciseSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Difficulty, &s.Category); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// GetExercise assembles one exercise with its lookups and children.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.ExerciseDetail, error) {
	query := d.dialect.Rebind(`
		SELECT e.id, e.name, e.name_alternative, e.slug, e.status, e.description,
			df.name, f.name, m.name, e.need_warmup, e.featured, e.weight, e.impact, e.variation_of
		FROM exercises e
		LEFT JOIN difficulty df ON df.id = e.difficulty_id
		LEFT JOIN forces f ON f.id = e.force_id
		LEFT JOIN mechanics m ON m.id = e.mechanic_id
		WHERE e.id = ?`)

	var (
		ex                            models.ExerciseDetail
		name, alt, slug, status, desc sql.NullString
		difficulty, force, mechanic   sql.NullString
		needWarmup, featured          sql.NullBool
		weight, impact                sql.NullFloat64
		variationOf                   sql.NullInt64
	)
	err := d.db.QueryRowContext(ctx, query, id).Scan(&ex.ID, &name, &alt, &slug, &status, &desc,
		&difficulty, &force, &mechanic, &needWarmup, &featured, &weight, &impact, &variationOf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}

	ex.Name = name.String
	ex.NameAlternative = alt.String
	ex.Slug = slug.String
	ex.Status = status.String
	ex.Description = desc.String
	ex.Difficulty = difficulty.String
	ex.Force = force.String
	ex.Mechanic = mechanic.String
	ex.NeedWarmup = needWarmup.Bool
	ex.Featured = featured.Bool
	ex.Stub = !name.Valid && !slug.Valid
	if weight.Valid {
		ex.Weight = &weight.Float64
	}
	if impact.Valid {
		ex.Impact = &impact.Float64
	}
	if variationOf.Valid {
		ex.VariationOf = &variationOf.Int64
	}

	loaders := []func(context.Context, *models.ExerciseDetail) error{
		d.loadMuscles, d.loadCategories, d.loadGrips, d.loadJoints, d.loadSeoTags, d.loadSteps, d.loadURLs,
	}
	for _, load := range loaders {
		if err := load(ctx, &ex); err != nil {
			return nil, err
		}
	}
	return &ex, nil
}

func (d *DB) loadMuscles(ctx context.Context, ex *models.ExerciseDetail) error {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(`
		SELECT m.id, COALESCE(m.name, ''), em.is_general, em.is_primary, em.is_secondary, em.is_tertiary
		FROM exercise_muscles em
		JOIN muscles m ON m.id = em.muscle_id
		WHERE em.exercise_id = ?
		ORDER BY m.id`), ex.ID)
	if err != nil {
		return fmt.Errorf("query muscles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			ref                                   models.MuscleRef
			general, primary, secondary, tertiary sql.NullBool
		)
		if err := rows.Scan(&ref.ID, &ref.Name, &general, &primary, &secondary, &tertiary); err != nil {
			return fmt.Errorf("scan muscle: %w", err)
		}
		switch {
		case tertiary.Bool:
			ref.Role = models.RoleTertiary
		case secondary.Bool:
			ref.Role = models.RoleSecondary
		case primary.Bool:
			ref.Role = models.RolePrimary
		default:
			ref.Role = models.RoleGeneral
		}
		ex.Muscles = append(ex.Muscles, ref)
	}
	return rows.Err()
}

func (d *DB) loadCategories(ctx context.Context, ex *models.ExerciseDetail) error {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(`
		SELECT c.id, COALESCE(c.name, ''), ec.is_primary
		FROM exercise_categories ec
		JOIN categories c ON c.id = ec.category_id
		WHERE ec.exercise_id = ?
		ORDER BY ec.is_primary DESC, c.id`), ex.ID)
	if err != nil {
		return fmt.Errorf("query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ref models.CategoryRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Primary); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		ex.Categories = append(ex.Categories, ref)
	}
	return rows.Err()
}

func (d *DB) loadGrips(ctx context.Context, ex *models.ExerciseDetail) error {
	names, err := d.queryStrings(ctx, `
		SELECT COALESCE(g.name, '')
		FROM exercise_grips eg
		JOIN grips g ON g.id = eg.grip_id
		WHERE eg.exercise_id = ?
		ORDER BY g.id`, ex.ID)
	if err != nil {
		return fmt.Errorf("query grips: %w", err)
	}
	ex.Grips = names
	return nil
}

func (d *DB) loadJoints(ctx context.Context, ex *models.ExerciseDetail) error {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(`
		SELECT joint_id FROM exercise_joints WHERE exercise_id = ? ORDER BY joint_id`), ex.ID)
	if err != nil {
		return fmt.Errorf("query joints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan joint: %w", err)
		}
		ex.Joints = append(ex.Joints, id)
	}
	return rows.Err()
}

func (d *DB) loadSeoTags(ctx context.Context, ex *models.ExerciseDetail) error {
	tags, err := d.queryStrings(ctx, `
		SELECT tag FROM seo_tags WHERE exercise_id = ? ORDER BY tag`, ex.ID)
	if err != nil {
		return fmt.Errorf("query seo tags: %w", err)
	}
	ex.SeoTags = tags
	return nil
}

func (d *DB) loadSteps(ctx context.Context, ex *models.ExerciseDetail) error {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(`
		SELECT COALESCE(step_order, 0), COALESCE(text_en_us, text, '')
		FROM correct_steps
		WHERE exercise_id = ?
		ORDER BY step_order, id`), ex.ID)
	if err != nil {
		return fmt.Errorf("query steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var s models.Step
		if err := rows.Scan(&s.Order, &s.Text); err != nil {
			return fmt.Errorf("scan step: %w", err)
		}
		ex.Steps = append(ex.Steps, s)
	}
	return rows.Err()
}

func (d *DB) loadURLs(ctx context.Context, ex *models.ExerciseDetail) error {
	var err error
	if ex.TargetURLs, err = d.genderURLs(ctx, TableTargetURLs, ex.ID); err != nil {
		return err
	}
	if ex.URLs, err = d.genderURLs(ctx, TableURLs, ex.ID); err != nil {
		return err
	}
	return nil
}

func (d *DB) genderURLs(ctx context.Context, table string, exerciseID int64) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT LOWER(g.name), u.url
		FROM %s u
		JOIN genders g ON g.id = u.gender_id
		WHERE u.exercise_id = ? AND u.url IS NOT NULL`, d.dialect.Quote(table))
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(query), exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var out map[string]string
	for rows.Next() {
		var gender, url string
		if err := rows.Scan(&gender, &url); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[gender] = url
	}
	return out, rows.Err()
}

func (d *DB) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
