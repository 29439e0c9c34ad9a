package neighbourhood

import (
	"math"
	"strings"
	"testing"

	"github.com/EmpoweredVote/police-explorer/internal/police"
)

func strPtr(s string) *string { return &s }

func TestSanitizeRichText(t *testing.T) {
	in := `<p onclick="steal()">Hello <strong>there</strong></p><script>alert(1)</script><a href="https://example.org">site</a><a href="javascript:alert(1)">bad</a>`
	got := SanitizeRichText(in)

	for _, banned := range []string{"<script", "onclick", "javascript:"} {
		if strings.Contains(got, banned) {
			t.Errorf("sanitized output still contains %q: %s", banned, got)
		}
	}
	for _, kept := range []string{"<p>", "<strong>there</strong>", `href="https://example.org"`, "nofollow"} {
		if !strings.Contains(got, kept) {
			t.Errorf("sanitized output lost %q: %s", kept, got)
		}
	}
}

func TestFrame(t *testing.T) {
	boundary := []police.BoundaryPoint{
		{Latitude: "52.0", Longitude: "-1.0"},
		{Latitude: "53.0", Longitude: "-1.0"},
		{Latitude: "53.0", Longitude: "-2.0"},
		{Latitude: "bad", Longitude: "-2.0"},
	}
	f, ok := Frame(boundary)
	if !ok {
		t.Fatal("expected a frame")
	}
	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !approx(f.Center.Lat, 158.0/3) || !approx(f.Center.Lng, -4.0/3) {
		t.Errorf("unexpected centre %+v", f.Center)
	}
	if f.SouthWest != (LatLng{Lat: 52, Lng: -2}) || f.NorthEast != (LatLng{Lat: 53, Lng: -1}) {
		t.Errorf("unexpected bounds %+v %+v", f.SouthWest, f.NorthEast)
	}

	if _, ok := Frame(nil); ok {
		t.Error("expected no frame for an empty boundary")
	}
}

func TestNewView(t *testing.T) {
	agg := &Aggregate{
		Force:         "leicestershire",
		Neighbourhood: "NC04",
		Details: police.NeighbourhoodDetails{
			Name:        "City Centre",
			Description: strPtr(`<p>Centre</p><script>x()</script>`),
			ContactDetails: &police.ContactDetails{
				Email:    strPtr("centre@example.police.uk"),
				Facebook: strPtr("javascript:alert(1)"),
				Twitter:  strPtr("@centrecops"),
			},
			Priorities: []police.Priority{{Issue: "<p>Shoplifting</p>", Action: "Patrols"}},
		},
		Team:   []police.TeamMember{{Name: "Jane Smith", Rank: "PCSO"}},
		Events: []police.Event{{Title: "Surgery", Description: `<img src=x onerror="y()">Come along`}},
		Boundary: []police.BoundaryPoint{
			{Latitude: "52.0", Longitude: "-1.0"},
			{Latitude: "54.0", Longitude: "-3.0"},
		},
		Month: "2026-04",
		Crimes: []police.CrimeRecord{
			{Category: "anti-social-behaviour", Location: police.CrimeLocation{Latitude: "52.5", Longitude: "-1.5", Street: police.Street{Name: "On or near High Street"}}},
			{Category: "robbery", Location: police.CrimeLocation{Latitude: "", Longitude: "-1.5"}},
		},
		Stats: []CrimeStat{{Category: "Anti Social Behaviour", Count: 1}, {Category: "Robbery", Count: 1}},
	}

	v := NewView(agg)

	if v.Description == nil || *v.Description != "<p>Centre</p>" {
		t.Errorf("unexpected description: %v", v.Description)
	}
	if strings.Contains(v.Events[0].DescriptionHTML, "onerror") {
		t.Errorf("event description not sanitized: %s", v.Events[0].DescriptionHTML)
	}
	if v.Contact.Email == nil || *v.Contact.Email != "centre@example.police.uk" {
		t.Errorf("unexpected email: %v", v.Contact.Email)
	}
	if v.Contact.Telephone != nil {
		t.Errorf("absent telephone should stay absent, got %q", *v.Contact.Telephone)
	}
	if v.Contact.FacebookURL != nil {
		t.Errorf("non-http facebook link must be dropped, got %q", *v.Contact.FacebookURL)
	}
	if v.Contact.TwitterHandle == nil || *v.Contact.TwitterHandle != "@centrecops" {
		t.Errorf("unexpected twitter handle: %v", v.Contact.TwitterHandle)
	}
	if v.Contact.TwitterURL == nil || *v.Contact.TwitterURL != "https://twitter.com/centrecops" {
		t.Errorf("unexpected twitter url: %v", v.Contact.TwitterURL)
	}
	if len(v.Priorities) != 1 || v.Priorities[0].IssueHTML != "<p>Shoplifting</p>" {
		t.Errorf("unexpected priorities: %+v", v.Priorities)
	}

	if v.Map == nil || v.Map.Center != (LatLng{Lat: 53, Lng: -2}) {
		t.Errorf("unexpected map frame: %+v", v.Map)
	}
	if len(v.Boundary) != 2 {
		t.Errorf("expected 2 boundary points, got %d", len(v.Boundary))
	}
	if len(v.Crimes) != 1 {
		t.Fatalf("markers without a position must be skipped, got %d", len(v.Crimes))
	}
	if v.Crimes[0].Label != "ANTI SOCIAL BEHAVIOUR" || v.Crimes[0].Street != "On or near High Street" {
		t.Errorf("unexpected marker: %+v", v.Crimes[0])
	}
	if v.Summary == nil || v.Summary.Total != 2 || v.Summary.MostCommon.Category != "Anti Social Behaviour" {
		t.Errorf("unexpected summary: %+v", v.Summary)
	}
}

func TestNewViewEmpty(t *testing.T) {
	v := NewView(&Aggregate{
		Force:         "leicestershire",
		Neighbourhood: "NC99",
		Boundary:      []police.BoundaryPoint{},
		Crimes:        []police.CrimeRecord{},
		Stats:         []CrimeStat{},
	})
	if v.Map != nil || v.Summary != nil || v.Description != nil {
		t.Errorf("expected no map, summary or description: %+v", v)
	}
	if v.Contact != (ContactView{}) {
		t.Errorf("expected empty contact, got %+v", v.Contact)
	}
	if v.Team == nil || v.Events == nil || v.Crimes == nil || v.Stats == nil || v.Priorities == nil {
		t.Error("collections should be non-nil so they encode as []")
	}
}
