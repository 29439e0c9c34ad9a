package neighbourhood

import (
	"net/url"
	"strings"

	"github.com/EmpoweredVote/police-explorer/internal/police"
)

// View is the display-ready form of an Aggregate. Every HTML field has
// been through SanitizeRichText; every other string is plain text that the
// renderer must escape.
type View struct {
	Force         string         `json:"force"`
	Neighbourhood string         `json:"neighbourhood"`
	Name          string         `json:"name,omitempty"`
	Description   *string        `json:"description_html,omitempty"`
	Contact       ContactView    `json:"contact"`
	Priorities    []PriorityView `json:"priorities"`
	Team          []TeamView     `json:"team"`
	Events        []EventView    `json:"events"`
	Map           *MapFrame      `json:"map,omitempty"`
	Boundary      []LatLng       `json:"boundary"`
	Month         string         `json:"month,omitempty"`
	Crimes        []CrimeMarker  `json:"crimes"`
	Stats         []CrimeStat    `json:"stats"`
	Summary       *CrimeSummary  `json:"summary,omitempty"`
}

// ContactView lists the contact channels that are present; absent ones are
// omitted rather than rendered empty.
type ContactView struct {
	Email         *string `json:"email,omitempty"`
	Telephone     *string `json:"telephone,omitempty"`
	FacebookURL   *string `json:"facebook_url,omitempty"`
	TwitterHandle *string `json:"twitter_handle,omitempty"`
	TwitterURL    *string `json:"twitter_url,omitempty"`
}

type PriorityView struct {
	IssueHTML  string `json:"issue_html"`
	ActionHTML string `json:"action_html"`
}

type TeamView struct {
	Name    string  `json:"name"`
	Rank    string  `json:"rank"`
	BioHTML *string `json:"bio_html,omitempty"`
}

type EventView struct {
	Title           string  `json:"title"`
	DescriptionHTML string  `json:"description_html"`
	Address         *string `json:"address,omitempty"`
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
}

// CrimeMarker is one map marker.
type CrimeMarker struct {
	Position LatLng `json:"position"`
	Label    string `json:"label"`
	Street   string `json:"street"`
}

// CrimeSummary headlines the stats: the most common category and the total.
type CrimeSummary struct {
	MostCommon CrimeStat `json:"most_common"`
	Total      int       `json:"total"`
}

// NewView projects an aggregate for display.
func NewView(agg *Aggregate) View {
	v := View{
		Force:         agg.Force,
		Neighbourhood: agg.Neighbourhood,
		Name:          agg.Details.Name,
		Contact:       newContactView(agg.Details.ContactDetails),
		Priorities:    make([]PriorityView, 0, len(agg.Details.Priorities)),
		Team:          make([]TeamView, 0, len(agg.Team)),
		Events:        make([]EventView, 0, len(agg.Events)),
		Boundary:      make([]LatLng, 0, len(agg.Boundary)),
		Month:         agg.Month,
		Crimes:        make([]CrimeMarker, 0, len(agg.Crimes)),
		Stats:         nonNil(agg.Stats),
	}

	if d := agg.Details.Description; d != nil && strings.TrimSpace(*d) != "" {
		v.Description = ptr(SanitizeRichText(*d))
	}
	for _, p := range agg.Details.Priorities {
		v.Priorities = append(v.Priorities, PriorityView{
			IssueHTML:  SanitizeRichText(p.Issue),
			ActionHTML: SanitizeRichText(p.Action),
		})
	}
	for _, m := range agg.Team {
		tv := TeamView{Name: m.Name, Rank: m.Rank}
		if m.Bio != nil && *m.Bio != "" {
			tv.BioHTML = ptr(SanitizeRichText(*m.Bio))
		}
		v.Team = append(v.Team, tv)
	}
	for _, e := range agg.Events {
		v.Events = append(v.Events, EventView{
			Title:           e.Title,
			DescriptionHTML: SanitizeRichText(e.Description),
			Address:         e.Address,
			StartDate:       e.StartDate,
			EndDate:         e.EndDate,
		})
	}

	for _, p := range boundaryPoints(agg.Boundary) {
		v.Boundary = append(v.Boundary, LatLng{Lat: p.Lat(), Lng: p.Lon()})
	}
	if frame, ok := Frame(agg.Boundary); ok {
		v.Map = &frame
	}

	for _, c := range agg.Crimes {
		lat, errLat := c.Location.Latitude.Float()
		lng, errLng := c.Location.Longitude.Float()
		if errLat != nil || errLng != nil {
			continue
		}
		v.Crimes = append(v.Crimes, CrimeMarker{
			Position: LatLng{Lat: lat, Lng: lng},
			Label:    markerLabel(c.Category),
			Street:   c.Location.Street.Name,
		})
	}

	if len(v.Stats) > 0 {
		total := 0
		for _, s := range v.Stats {
			total += s.Count
		}
		v.Summary = &CrimeSummary{MostCommon: v.Stats[0], Total: total}
	}
	return v
}

func newContactView(cd *police.ContactDetails) ContactView {
	var cv ContactView
	if cd == nil {
		return cv
	}
	if present(cd.Email) {
		cv.Email = cd.Email
	}
	if present(cd.Telephone) {
		cv.Telephone = cd.Telephone
	}
	if present(cd.Facebook) && isWebURL(*cd.Facebook) {
		cv.FacebookURL = cd.Facebook
	}
	if present(cd.Twitter) {
		handle := strings.TrimPrefix(strings.TrimSpace(*cd.Twitter), "@")
		cv.TwitterHandle = ptr("@" + handle)
		cv.TwitterURL = ptr("https://twitter.com/" + handle)
	}
	return cv
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// isWebURL rejects javascript: and other non-http links before they reach
// an href.
func isWebURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func ptr[T any](v T) *T { return &v }
