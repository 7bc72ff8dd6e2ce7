// ABOUTME: Decomposes one decoded exercise record into ordered relational writes.
// ABOUTME: Pure functions only; the caller applies the writes inside a page transaction.
package normalize

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/exercises/internal/models"
	"github.com/harperreed/exercises/internal/storage"
)

// ErrMissingField is returned when a record lacks a field the mapping requires.
var ErrMissingField = errors.New("missing required field")

// Exercise returns the writes for rec in foreign-key order: lookups before the
// exercise, the exercise before its associations and children.
func Exercise(rec *models.Exercise) ([]storage.Write, error) {
	if rec == nil || !rec.ID.Valid {
		return nil, fmt.Errorf("exercise: %w: id", ErrMissingField)
	}
	id := rec.ID.Int64

	var writes []storage.Write
	writes = append(writes, descriptors(rec)...)
	writes = append(writes, variation(rec)...)
	writes = append(writes, exerciseRow(rec))
	writes = append(writes, muscles(id, rec)...)
	writes = append(writes, grips(id, rec.Grips)...)

	cats, err := categories(id, rec.Category, rec.AdditionalCategories)
	if err != nil {
		return nil, err
	}
	writes = append(writes, cats...)

	lfc, err := longFormContent(id, rec.LongFormContent)
	if err != nil {
		return nil, err
	}
	writes = append(writes, lfc...)
	writes = append(writes, correctSteps(id, rec.CorrectSteps)...)
	writes = append(writes, seoTags(id, rec.SeoTags)...)

	for _, links := range []struct {
		table string
		urls  map[string]*string
	}{
		{storage.TableTargetURLs, rec.TargetURLs},
		{storage.TableURLs, rec.URLs},
	} {
		w, err := genderLinks(id, links.table, links.urls)
		if err != nil {
			return nil, err
		}
		writes = append(writes, w...)
	}

	writes = append(writes, fullMeasure(id, rec.FullMeasure)...)
	writes = append(writes, joints(id, rec.Joints)...)

	images, err := bodyMapImages(id, rec.BodyMapImages)
	if err != nil {
		return nil, err
	}
	writes = append(writes, images...)

	return writes, nil
}

func descriptors(rec *models.Exercise) []storage.Write {
	var writes []storage.Write
	if d := rec.Difficulty; d != nil {
		writes = append(writes, storage.InsertIfAbsent(storage.TableDifficulty, storage.Row{
			{Name: "id", Value: d.ID},
			{Name: "name", Value: d.Name},
			{Name: "name_en_us", Value: d.NameEnUS},
		}))
	}
	if rec.Force != nil {
		writes = append(writes, descriptor(storage.TableForces, rec.Force))
	}
	if rec.Mechanic != nil {
		writes = append(writes, descriptor(storage.TableMechanics, rec.Mechanic))
	}
	return writes
}

func descriptor(table string, d *models.Descriptor) storage.Write {
	return storage.InsertIfAbsent(table, storage.Row{
		{Name: "id", Value: d.ID},
		{Name: "name", Value: d.Name},
		{Name: "url_name", Value: d.URLName},
		{Name: "name_en_us", Value: d.NameEnUS},
		{Name: "description", Value: d.Description},
		{Name: "description_en_us", Value: d.DescriptionEnUS},
	})
}

// variation ensures the variation_of target exists before the exercise references it.
func variation(rec *models.Exercise) []storage.Write {
	if !rec.VariationOf.Valid {
		return nil
	}
	return []storage.Write{storage.Stub(storage.TableExercises, rec.VariationOf.Int64)}
}

func exerciseRow(rec *models.Exercise) storage.Write {
	var difficultyID, forceID, mechanicID models.Int
	if rec.Difficulty != nil {
		difficultyID = models.NewInt(rec.Difficulty.ID)
	}
	if rec.Force != nil {
		forceID = models.NewInt(rec.Force.ID)
	}
	if rec.Mechanic != nil {
		mechanicID = models.NewInt(rec.Mechanic.ID)
	}

	return storage.Upsert(storage.TableExercises, storage.Row{
		{Name: "id", Value: rec.ID.Int64},
		{Name: "name", Value: rec.Name},
		{Name: "name_en_us", Value: rec.NameEnUS},
		{Name: "name_alternative", Value: rec.NameAlternative},
		{Name: "slug", Value: rec.Slug},
		{Name: "need_warmup", Value: rec.NeedWarmup},
		{Name: "advanced_weight", Value: rec.AdvancedWeight},
		{Name: "featured_weight", Value: rec.FeaturedWeight},
		{Name: "weight", Value: rec.Weight},
		{Name: "impact", Value: rec.Impact},
		{Name: "description", Value: rec.Description},
		{Name: "description_en_us", Value: rec.DescriptionEnUS},
		{Name: "use_youtube_links", Value: rec.UseYoutubeLinks},
		{Name: "featured", Value: rec.Featured},
		{Name: "sponsored_link", Value: rec.SponsoredLink},
		{Name: "exercise_to_copy", Value: rec.ExerciseToCopy},
		{Name: "status", Value: rec.Status},
		{Name: "sharing_hash", Value: rec.SharingHash},
		{Name: "variation_of", Value: rec.VariationOf},
		{Name: "difficulty_id", Value: difficultyID},
		{Name: "force_id", Value: forceID},
		{Name: "mechanic_id", Value: mechanicID},
	})
}

// muscles writes the four role lists in order. The association is keyed by
// (exercise, muscle), so a muscle listed under several roles keeps the last one.
func muscles(exerciseID int64, rec *models.Exercise) []storage.Write {
	roles := []struct {
		name string
		list []models.Muscle
	}{
		{models.RoleGeneral, rec.Muscles},
		{models.RolePrimary, rec.MusclesPrimary},
		{models.RoleSecondary, rec.MusclesSecondary},
		{models.RoleTertiary, rec.MusclesTertiary},
	}

	var writes []storage.Write
	for _, role := range roles {
		for _, m := range role.list {
			writes = append(writes,
				storage.InsertIfAbsent(storage.TableMuscles, storage.Row{
					{Name: "id", Value: m.ID},
					{Name: "name", Value: m.Name},
					{Name: "name_en_us", Value: m.NameEnUS},
					{Name: "scientific_name", Value: m.ScientificName},
					{Name: "url_name", Value: m.URLName},
					{Name: "description", Value: m.Description},
					{Name: "description_en_us", Value: m.DescriptionEnUS},
					{Name: "lft", Value: m.Lft},
					{Name: "rght", Value: m.Rght},
					{Name: "tree_id", Value: m.TreeID},
					{Name: "level", Value: m.Level},
					{Name: "parent", Value: m.Parent},
				}),
				storage.Upsert(storage.TableExerciseMuscles, storage.Row{
					{Name: "exercise_id", Value: exerciseID},
					{Name: "muscle_id", Value: m.ID},
					{Name: "is_general", Value: role.name == models.RoleGeneral},
					{Name: "is_primary", Value: role.name == models.RolePrimary},
					{Name: "is_secondary", Value: role.name == models.RoleSecondary},
					{Name: "is_tertiary", Value: role.name == models.RoleTertiary},
				}, "exercise_id", "muscle_id"),
			)
		}
	}
	return writes
}

func grips(exerciseID int64, list []models.Grip) []storage.Write {
	var writes []storage.Write
	for _, g := range list {
		writes = append(writes,
			storage.InsertIfAbsent(storage.TableGrips, storage.Row{
				{Name: "id", Value: g.ID},
				{Name: "name", Value: g.Name},
				{Name: "name_en_us", Value: g.NameEnUS},
				{Name: "description", Value: g.Description},
				{Name: "description_en_us", Value: g.DescriptionEnUS},
				{Name: "url_name", Value: g.URLName},
			}),
			storage.Upsert(storage.TableExerciseGrips, storage.Row{
				{Name: "exercise_id", Value: exerciseID},
				{Name: "grip_id", Value: g.ID},
			}, "exercise_id", "grip_id"),
		)
	}
	return writes
}

func categories(exerciseID int64, primary *models.Category, additional []models.Category) ([]storage.Write, error) {
	if primary == nil {
		return nil, fmt.Errorf("exercise %d: %w: category", exerciseID, ErrMissingField)
	}

	writes := category(exerciseID, primary, true)
	for i := range additional {
		writes = append(writes, category(exerciseID, &additional[i], false)...)
	}
	return writes, nil
}

func category(exerciseID int64, c *models.Category, primary bool) []storage.Write {
	return []storage.Write{
		storage.InsertIfAbsent(storage.TableCategories, storage.Row{
			{Name: "id", Value: c.ID},
			{Name: "name", Value: c.Name},
			{Name: "name_en_us", Value: c.NameEnUS},
			{Name: "include_in_api", Value: c.IncludeInAPI},
			{Name: "include_in_workout_generator", Value: c.IncludeInWorkoutGenerator},
			{Name: "display_order", Value: c.DisplayOrder},
			{Name: "enable", Value: c.Enable},
			{Name: "featured", Value: c.Featured},
			{Name: "description", Value: c.Description},
		}),
		storage.Upsert(storage.TableExerciseCategory, storage.Row{
			{Name: "exercise_id", Value: exerciseID},
			{Name: "category_id", Value: c.ID},
			{Name: "is_primary", Value: primary},
			{Name: "is_additional", Value: !primary},
		}, "exercise_id", "category_id", "is_primary", "is_additional"),
	}
}

func longFormContent(exerciseID int64, list []models.LongFormContent) ([]storage.Write, error) {
	var writes []storage.Write
	for _, lfc := range list {
		genderID, err := lfc.Gender.Resolve()
		if err != nil {
			return nil, fmt.Errorf("exercise %d long_form_content %d: %w", exerciseID, lfc.ID, err)
		}
		writes = append(writes, storage.InsertIfAbsent(storage.TableLongFormContent, storage.Row{
			{Name: "id", Value: lfc.ID},
			{Name: "exercise_id", Value: exerciseID},
			{Name: "gender_id", Value: genderID},
		}))
	}
	return writes, nil
}

func correctSteps(exerciseID int64, list []models.CorrectStep) []storage.Write {
	var writes []storage.Write
	for _, s := range list {
		writes = append(writes, storage.InsertIfAbsent(storage.TableCorrectSteps, storage.Row{
			{Name: "id", Value: s.ID},
			{Name: "exercise_id", Value: exerciseID},
			{Name: "step_order", Value: s.Order},
			{Name: "text", Value: s.Text},
			{Name: "text_en_us", Value: s.TextEnUS},
		}))
	}
	return writes
}

func seoTags(exerciseID int64, tags []string) []storage.Write {
	var writes []storage.Write
	for _, tag := range tags {
		writes = append(writes, storage.Upsert(storage.TableSeoTags, storage.Row{
			{Name: "exercise_id", Value: exerciseID},
			{Name: "tag", Value: tag},
		}, "exercise_id", "tag"))
	}
	return writes
}

// genderLinks maps a gender-name-keyed link object onto (exercise, gender) rows.
// Keys are visited in sorted order so the writes are deterministic.
func genderLinks(exerciseID int64, table string, links map[string]*string) ([]storage.Write, error) {
	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, name)
	}
	sort.Strings(names)

	var writes []storage.Write
	for _, name := range names {
		genderID, err := models.GenderID(name)
		if err != nil {
			return nil, fmt.Errorf("exercise %d %s: %w", exerciseID, table, err)
		}
		writes = append(writes, storage.Upsert(table, storage.Row{
			{Name: "exercise_id", Value: exerciseID},
			{Name: "gender_id", Value: genderID},
			{Name: "url", Value: links[name]},
		}, "exercise_id", "gender_id"))
	}
	return writes, nil
}

// fullMeasure keeps at most one full_measures row per exercise: rows left over
// from an earlier fetch with another id, or no full_measure at all, are pruned.
func fullMeasure(exerciseID int64, fm *models.FullMeasure) []storage.Write {
	owner := storage.Row{{Name: "exercise_id", Value: exerciseID}}
	if fm == nil {
		return []storage.Write{storage.Prune(storage.TableFullMeasures, owner, nil)}
	}

	var (
		writes                               []storage.Write
		measureID, denominatorID, calcModeID models.Int
	)
	if fm.Measure != nil {
		measureID = models.NewInt(fm.Measure.ID)
		writes = append(writes, unitGroup(storage.TableMeasures, storage.TableMeasureUnits, "measure_id", fm.Measure)...)
	}
	if fm.Denominator != nil {
		denominatorID = models.NewInt(fm.Denominator.ID)
		writes = append(writes, unitGroup(storage.TableDenominators, storage.TableDenominatorUnits, "denominator_id", fm.Denominator)...)
	}
	if cm := fm.CalculationMode; cm != nil {
		calcModeID = models.NewInt(cm.ID)
		writes = append(writes, storage.InsertIfAbsent(storage.TableCalculationModes, storage.Row{
			{Name: "id", Value: cm.ID},
			{Name: "name", Value: cm.Name},
			{Name: "description", Value: cm.Description},
		}))
	}

	writes = append(writes, storage.Prune(storage.TableFullMeasures, owner, storage.Row{{Name: "id", Value: fm.ID}}))
	return append(writes, storage.Upsert(storage.TableFullMeasures, storage.Row{
		{Name: "id", Value: fm.ID},
		{Name: "exercise_id", Value: exerciseID},
		{Name: "measure_id", Value: measureID},
		{Name: "denominator_id", Value: denominatorID},
		{Name: "calculation_mode_id", Value: calcModeID},
	}))
}

// unitGroup writes a measure or denominator, its units and the link rows between them.
func unitGroup(table, linkTable, ownerColumn string, g *models.UnitGroup) []storage.Write {
	writes := []storage.Write{storage.InsertIfAbsent(table, storage.Row{
		{Name: "id", Value: g.ID},
		{Name: "name", Value: g.Name},
	})}
	for _, u := range g.Units {
		writes = append(writes,
			storage.InsertIfAbsent(storage.TableUnits, storage.Row{
				{Name: "id", Value: u.ID},
				{Name: "name", Value: u.Name},
			}),
			storage.InsertIfAbsent(linkTable, storage.Row{
				{Name: ownerColumn, Value: g.ID},
				{Name: "unit_id", Value: u.ID},
			}, ownerColumn, "unit_id"),
		)
	}
	return writes
}

func joints(exerciseID int64, ids []models.Int) []storage.Write {
	var writes []storage.Write
	for _, j := range ids {
		if !j.Valid {
			continue
		}
		writes = append(writes,
			storage.InsertIfAbsent(storage.TableJoints, storage.Row{{Name: "id", Value: j.Int64}}),
			storage.InsertIfAbsent(storage.TableExerciseJoints, storage.Row{
				{Name: "exercise_id", Value: exerciseID},
				{Name: "joint_id", Value: j.Int64},
			}, "exercise_id", "joint_id"),
		)
	}
	return writes
}

func bodyMapImages(exerciseID int64, list []models.BodyMapImage) ([]storage.Write, error) {
	var writes []storage.Write
	for _, img := range list {
		genderID, err := img.Gender.Resolve()
		if err != nil {
			return nil, fmt.Errorf("exercise %d body_map_image %d: %w", exerciseID, img.ID, err)
		}
		writes = append(writes, storage.Upsert(storage.TableBodyMapImages, storage.Row{
			{Name: "id", Value: img.ID},
			{Name: "exercise_id", Value: exerciseID},
			{Name: "gender_id", Value: genderID},
			{Name: "kind", Value: img.Kind},
			{Name: "dark_mode", Value: img.DarkMode},
		}))
	}
	return writes, nil
}
