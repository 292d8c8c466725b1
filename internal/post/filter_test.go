package post

import "testing"

func coord(v float64) *float64 { return &v }

func TestFilterNearWithoutTags(t *testing.T) {
	posts := []Post{
		{ID: "near", Location: []float64{0, 0, 5, 5}},
		{ID: "far", Location: []float64{0, 0, 50, 50}},
	}

	got := Filter(posts, FilterRequest{XCoord: coord(4), YCoord: coord(4)})
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("unexpected near set: %+v", got)
	}
}

func TestFilterMissingCoordinatesWithoutTags(t *testing.T) {
	posts := []Post{{ID: "p", Location: []float64{0, 0, 0, 0}}}

	got := Filter(posts, FilterRequest{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %+v", got)
	}

	got = Filter(posts, FilterRequest{XCoord: coord(0)})
	if len(got) != 0 {
		t.Fatalf("expected empty result with only xCoord, got %+v", got)
	}
}

func TestFilterDuplicateTagMatches(t *testing.T) {
	posts := []Post{{ID: "p", Location: []float64{0, 0, 5, 5}, Tags: []string{"music"}}}

	got := Filter(posts, FilterRequest{XCoord: coord(4), YCoord: coord(4), Tags: []string{"music", "music"}})
	if len(got) != 2 {
		t.Fatalf("expected post twice, got %d", len(got))
	}
}

func TestFilterMultipleMatchingTags(t *testing.T) {
	posts := []Post{
		{ID: "a", Location: []float64{0, 0, 1, 1}, Tags: []string{"music", "food"}},
		{ID: "b", Location: []float64{0, 0, 1, 1}, Tags: []string{"hiking"}},
	}

	got := Filter(posts, FilterRequest{XCoord: coord(1), YCoord: coord(1), Tags: []string{"music", "food", "art"}})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "a" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFilterTagsRestrictToNearSet(t *testing.T) {
	posts := []Post{
		{ID: "near", Location: []float64{0, 0, 5, 5}, Tags: []string{"music"}},
		{ID: "far", Location: []float64{0, 0, 80, 80}, Tags: []string{"music"}},
	}

	got := Filter(posts, FilterRequest{XCoord: coord(4), YCoord: coord(4), Tags: []string{"music"}})
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFilterTagsWithoutCoordinatesUseAllPosts(t *testing.T) {
	posts := []Post{
		{ID: "a", Location: []float64{0, 0, 5, 5}, Tags: []string{"music"}},
		{ID: "b", Location: []float64{0, 0, 80, 80}, Tags: []string{"music"}},
		{ID: "c", Tags: []string{"food"}},
	}

	got := Filter(posts, FilterRequest{Tags: []string{"music"}})
	if len(got) != 2 {
		t.Fatalf("expected both music posts, got %+v", got)
	}
	for _, p := range got {
		if p.ID == "c" {
			t.Fatalf("unexpected untagged match")
		}
	}
}

func TestFilterShortLocationNeverNear(t *testing.T) {
	posts := []Post{{ID: "p", Location: []float64{5, 5}}}

	got := Filter(posts, FilterRequest{XCoord: coord(5), YCoord: coord(5)})
	if len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestFilterEmptyStore(t *testing.T) {
	got := Filter(nil, FilterRequest{XCoord: coord(1), YCoord: coord(1), Tags: []string{"x"}})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result")
	}
}

func TestFilterRadiusIsExclusive(t *testing.T) {
	posts := []Post{
		{ID: "edge", Location: []float64{0, 0, 6, 8}},
		{ID: "inside", Location: []float64{0, 0, 6, 7.9}},
	}

	got := Filter(posts, FilterRequest{XCoord: coord(0), YCoord: coord(0)})
	if len(got) != 1 || got[0].ID != "inside" {
		t.Fatalf("expected only the post inside the radius, got %+v", got)
	}
}
