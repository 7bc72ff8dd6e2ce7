// ABOUTME: Tests for page and exercise record decoding.
// ABOUTME: Verifies cursors, nested optional objects and the misspelled sponsor flag.
package models

import (
	"errors"
	"testing"
)

const samplePage = `{
  "count": 2,
  "next": "https://example.test/exercises/?limit=1&offset=1",
  "previous": null,
  "results": [{
    "id": 10,
    "name": "Push Up",
    "name_en_us": "Push Up",
    "slug": "push-up",
    "need_warmup": false,
    "advanced_weight": 1,
    "featured_weight": "2.5",
    "weight": 3,
    "impact": null,
    "description": "d",
    "description_en_us": "d",
    "use_youtube_links": true,
    "featured": false,
    "sponsered_link": false,
    "exercise_to_copy": null,
    "status": "Published",
    "sharing_hash": "abc",
    "variation_of": 4,
    "difficulty": {"id": 1, "name": "Beginner", "name_en_us": "Beginner"},
    "force": null,
    "mechanic": null,
    "muscles_primary": [{"id": 7, "name": "Chest", "lft": 1, "rght": 2, "tree_id": 1, "level": 0, "parent": null}],
    "category": {"id": 3, "name": "Bodyweight", "display_order": "5", "enable": 1},
    "seo_tags": ["push"],
    "target_urls": {"male": "/m", "female": null},
    "joints": [11, 12],
    "long_form_content": [{"id": 5, "gender": {"id": 1, "name": "Male"}}],
    "body_map_images": [{"id": 8, "gender": {"id": 2}, "kind": "front", "dark_mode": true, "image": "x.png"}],
    "full_measure": null
  }]
}`

func TestDecodePage(t *testing.T) {
	p, err := DecodePage([]byte(samplePage))
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}

	if p.NextURL() != "https://example.test/exercises/?limit=1&offset=1" {
		t.Errorf("NextURL = %q", p.NextURL())
	}
	if len(p.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(p.Results))
	}

	ex := p.Results[0]
	if !ex.ID.Valid || ex.ID.Int64 != 10 {
		t.Errorf("ID = %+v, want 10", ex.ID)
	}
	if ex.FeaturedWeight.Float64 != 2.5 {
		t.Errorf("FeaturedWeight = %v, want 2.5", ex.FeaturedWeight)
	}
	if ex.Impact.Valid {
		t.Error("expected null impact")
	}
	if !ex.SponsoredLink.Valid || ex.SponsoredLink.Bool {
		t.Errorf("SponsoredLink = %+v, want false", ex.SponsoredLink)
	}
	if ex.VariationOf.Int64 != 4 {
		t.Errorf("VariationOf = %+v, want 4", ex.VariationOf)
	}
	if ex.Force != nil || ex.Mechanic != nil || ex.FullMeasure != nil {
		t.Error("expected null force, mechanic and full_measure")
	}
	if ex.Difficulty == nil || ex.Difficulty.ID != 1 {
		t.Errorf("Difficulty = %+v", ex.Difficulty)
	}
	if ex.Category == nil || ex.Category.DisplayOrder.Int64 != 5 || !ex.Category.Enable.Bool {
		t.Errorf("Category = %+v", ex.Category)
	}
	if len(ex.Joints) != 2 || ex.Joints[1].Int64 != 12 {
		t.Errorf("Joints = %+v", ex.Joints)
	}
	if ex.TargetURLs["female"] != nil {
		t.Error("expected null female target url")
	}
	if len(ex.MusclesPrimary) != 1 || ex.MusclesPrimary[0].Parent.Valid {
		t.Errorf("MusclesPrimary = %+v", ex.MusclesPrimary)
	}
	if got, _ := ex.BodyMapImages[0].Gender.Resolve(); got != GenderFemale {
		t.Errorf("body map gender = %d, want %d", got, GenderFemale)
	}
}

func TestDecodePageLastPage(t *testing.T) {
	for _, input := range []string{
		`{"results": []}`,
		`{"results": [], "next": null}`,
		`{"results": [], "next": "  "}`,
	} {
		p, err := DecodePage([]byte(input))
		if err != nil {
			t.Fatalf("DecodePage(%s): %v", input, err)
		}
		if p.NextURL() != "" {
			t.Errorf("NextURL for %s = %q, want empty", input, p.NextURL())
		}
	}
}

func TestDecodePageInvalid(t *testing.T) {
	if _, err := DecodePage([]byte(`{"results": [`)); err == nil {
		t.Error("expected error for truncated page")
	}
}

func TestIngestRunFinish(t *testing.T) {
	r := NewIngestRun("https://example.test")
	if r.Status != RunRunning {
		t.Errorf("Status = %s, want running", r.Status)
	}

	r.Finish(nil)
	if r.Status != RunCompleted || r.FinishedAt == nil || r.Error != nil {
		t.Errorf("unexpected completed run: %+v", r)
	}

	failed := NewIngestRun("https://example.test").Finish(errors.New("boom"))
	if failed.Status != RunFailed || failed.Error == nil || *failed.Error != "boom" {
		t.Errorf("unexpected failed run: %+v", failed)
	}
}
