package neighbourhood

import (
	"testing"
	"time"

	"github.com/EmpoweredVote/police-explorer/internal/police"
	"github.com/google/go-cmp/cmp"
)

func crimes(categories ...string) []police.CrimeRecord {
	out := make([]police.CrimeRecord, len(categories))
	for i, c := range categories {
		out[i] = police.CrimeRecord{Category: c}
	}
	return out
}

func TestAggregateCategories(t *testing.T) {
	got := AggregateCategories(crimes("burglary", "burglary", "robbery"))
	want := []CrimeStat{
		{Category: "Burglary", Count: 2},
		{Category: "Robbery", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateCategoriesTiesKeepFirstSeen(t *testing.T) {
	got := AggregateCategories(crimes(
		"vehicle-crime", "shoplifting", "anti-social-behaviour",
		"shoplifting", "vehicle-crime", "anti-social-behaviour", "anti-social-behaviour",
	))
	want := []CrimeStat{
		{Category: "Anti Social Behaviour", Count: 3},
		{Category: "Vehicle Crime", Count: 2},
		{Category: "Shoplifting", Count: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateCategoriesSumAndDeterminism(t *testing.T) {
	in := crimes(
		"other-theft", "burglary", "drugs", "other-theft", "public-order",
		"drugs", "criminal-damage-arson", "burglary", "other-theft", "bicycle-theft",
	)
	first := AggregateCategories(in)

	total := 0
	for _, s := range first {
		total += s.Count
	}
	if total != len(in) {
		t.Errorf("counts sum to %d, want %d", total, len(in))
	}

	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, AggregateCategories(in)); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestAggregateCategoriesEmpty(t *testing.T) {
	got := AggregateCategories(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := map[string]string{
		"anti-social-behaviour": "Anti Social Behaviour",
		"burglary":              "Burglary",
		"criminal-damage-arson": "Criminal Damage Arson",
		"possession-of-weapons": "Possession Of Weapons",
		"violent-crime":         "Violent Crime",
		"":                      "",
	}
	for in, want := range cases {
		if got := CategoryLabel(in); got != want {
			t.Errorf("CategoryLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarkerLabel(t *testing.T) {
	if got := markerLabel("anti-social-behaviour"); got != "ANTI SOCIAL BEHAVIOUR" {
		t.Errorf("unexpected marker label %q", got)
	}
}

func TestCrimeMonth(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC), "2026-04"},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "2025-09"},
		{time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), "2025-12"},
		{time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), "2026-03"},
	}
	for _, tc := range cases {
		if got := CrimeMonth(tc.now); got != tc.want {
			t.Errorf("CrimeMonth(%s) = %q, want %q", tc.now.Format(time.DateOnly), got, tc.want)
		}
	}
}
