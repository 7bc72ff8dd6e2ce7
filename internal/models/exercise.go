// ABOUTME: Exercise record as decoded from the catalog listing endpoint.
// ABOUTME: Nested optional structures are pointers so absence and null read the same.
package models

// Exercise is one record of the paginated catalog.
type Exercise struct {
	ID              Int     `json:"id"`
	Name            *string `json:"name"`
	NameEnUS        *string `json:"name_en_us"`
	NameAlternative *string `json:"name_alternative"`
	Slug            *string `json:"slug"`
	NeedWarmup      Bool    `json:"need_warmup"`
	AdvancedWeight  Float   `json:"advanced_weight"`
	FeaturedWeight  Float   `json:"featured_weight"`
	Weight          Float   `json:"weight"`
	Impact          Float   `json:"impact"`
	Description     *string `json:"description"`
	DescriptionEnUS *string `json:"description_en_us"`
	UseYoutubeLinks Bool    `json:"use_youtube_links"`
	Featured        Bool    `json:"featured"`
	SponsoredLink   Bool    `json:"sponsered_link"` // sic
	ExerciseToCopy  Int     `json:"exercise_to_copy"`
	Status          *string `json:"status"`
	SharingHash     *string `json:"sharing_hash"`
	VariationOf     Int     `json:"variation_of"`

	Difficulty           *Difficulty  `json:"difficulty"`
	Force                *Descriptor  `json:"force"`
	Mechanic             *Descriptor  `json:"mechanic"`
	Category             *Category    `json:"category"`
	AdditionalCategories []Category   `json:"additional_categories"`
	Grips                []Grip       `json:"grips"`
	Joints               []Int        `json:"joints"`
	FullMeasure          *FullMeasure `json:"full_measure"`

	Muscles          []Muscle `json:"muscles"`
	MusclesPrimary   []Muscle `json:"muscles_primary"`
	MusclesSecondary []Muscle `json:"muscles_secondary"`
	MusclesTertiary  []Muscle `json:"muscles_tertiary"`

	LongFormContent []LongFormContent  `json:"long_form_content"`
	CorrectSteps    []CorrectStep      `json:"correct_steps"`
	SeoTags         []string           `json:"seo_tags"`
	TargetURLs      map[string]*string `json:"target_urls"`
	URLs            map[string]*string `json:"urls"`
	BodyMapImages   []BodyMapImage     `json:"body_map_images"`
}

// Difficulty is the exercise difficulty lookup.
type Difficulty struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	NameEnUS *string `json:"name_en_us"`
}

// Descriptor is the shared shape of the force and mechanic lookups.
type Descriptor struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name"`
	URLName         *string `json:"url_name"`
	NameEnUS        *string `json:"name_en_us"`
	Description     *string `json:"description"`
	DescriptionEnUS *string `json:"description_en_us"`
}

// Muscle is a node of the muscle tree (nested-set encoded).
type Muscle struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name"`
	NameEnUS        *string `json:"name_en_us"`
	ScientificName  *string `json:"scientific_name"`
	URLName         *string `json:"url_name"`
	Description     *string `json:"description"`
	DescriptionEnUS *string `json:"description_en_us"`
	Lft             Int     `json:"lft"`
	Rght            Int     `json:"rght"`
	TreeID          Int     `json:"tree_id"`
	Level           Int     `json:"level"`
	Parent          Int     `json:"parent"`
}

// Grip is a grip lookup entry.
type Grip struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name"`
	NameEnUS        *string `json:"name_en_us"`
	Description     *string `json:"description"`
	DescriptionEnUS *string `json:"description_en_us"`
	URLName         *string `json:"url_name"`
}

// Category is a category lookup entry.
type Category struct {
	ID                        int64   `json:"id"`
	Name                      *string `json:"name"`
	NameEnUS                  *string `json:"name_en_us"`
	IncludeInAPI              Bool    `json:"include_in_api"`
	IncludeInWorkoutGenerator Bool    `json:"include_in_workout_generator"`
	DisplayOrder              Int     `json:"display_order"`
	Enable                    Bool    `json:"enable"`
	Featured                  Bool    `json:"featured"`
	Description               *string `json:"description"`
}

// LongFormContent is a per-gender long-form entry. Video URLs are not kept.
type LongFormContent struct {
	ID     int64     `json:"id"`
	Gender GenderRef `json:"gender"`
}

// CorrectStep is one ordered instruction step.
type CorrectStep struct {
	ID       int64   `json:"id"`
	Order    Int     `json:"order"`
	Text     *string `json:"text"`
	TextEnUS *string `json:"text_en_us"`
}

// Unit is a measurement unit.
type Unit struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

// UnitGroup is the shared shape of a measure and a denominator.
type UnitGroup struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Units []Unit  `json:"units"`
}

// CalculationMode describes how a full measure is computed.
type CalculationMode struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// FullMeasure ties an exercise to its measure, denominator and calculation mode.
type FullMeasure struct {
	ID              int64            `json:"id"`
	Measure         *UnitGroup       `json:"measure"`
	Denominator     *UnitGroup       `json:"denominator"`
	CalculationMode *CalculationMode `json:"calculation_mode"`
}

// BodyMapImage is a body-region image descriptor. Image URLs are not kept.
type BodyMapImage struct {
	ID       int64     `json:"id"`
	Gender   GenderRef `json:"gender"`
	Kind     *string   `json:"kind"`
	DarkMode Bool      `json:"dark_mode"`
}
