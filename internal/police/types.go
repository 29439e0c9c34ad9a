package police

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Force is a territorial police force.
type Force struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Neighbourhood is a policing area within a force.
type Neighbourhood struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NeighbourhoodDetails is the descriptive record for a single neighbourhood.
// Description may contain HTML markup supplied by the force.
type NeighbourhoodDetails struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name,omitempty"`
	URLForce       string          `json:"url_force,omitempty"`
	Description    *string         `json:"description,omitempty"`
	ContactDetails *ContactDetails `json:"contact_details,omitempty"`
	Priorities     []Priority      `json:"priorities"`
}

// ContactDetails holds the optional ways to reach a neighbourhood team.
type ContactDetails struct {
	Email     *string `json:"email,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
}

// Priority is an issue the team has committed to act on.
type Priority struct {
	Issue  string `json:"issue"`
	Action string `json:"action"`
}

// TeamMember is an officer or PCSO assigned to a neighbourhood.
type TeamMember struct {
	Name string  `json:"name"`
	Rank string  `json:"rank"`
	Bio  *string `json:"bio,omitempty"`
}

// Event is a community event run by the neighbourhood team.
type Event struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Address     *string `json:"address,omitempty"`
	Type        *string `json:"type,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

// BoundaryPoint is one vertex of a neighbourhood boundary.
type BoundaryPoint struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

// CrimeRecord is a single street-level crime.
type CrimeRecord struct {
	ID            int64          `json:"id,omitempty"`
	Category      string         `json:"category"`
	Month         string         `json:"month,omitempty"`
	LocationType  string         `json:"location_type,omitempty"`
	Location      CrimeLocation  `json:"location"`
	OutcomeStatus *OutcomeStatus `json:"outcome_status,omitempty"`
}

// CrimeLocation is the anonymised point a crime is mapped to.
type CrimeLocation struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	Street    Street     `json:"street"`
}

// Street names the approximate location of a crime.
type Street struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// OutcomeStatus is the latest recorded outcome for a crime.
type OutcomeStatus struct {
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Coordinate is a latitude or longitude as sent by the API. The upstream
// service encodes these as strings, some mirrors as numbers; both decode
// and the upstream text is kept so it can be sent back unchanged.
type Coordinate string

// UnmarshalJSON accepts a JSON string, number or null.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Coordinate(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	*c = Coordinate(n.String())
	return nil
}

// Float parses the coordinate.
func (c Coordinate) Float() (float64, error) {
	return strconv.ParseFloat(string(c), 64)
}

// FloatCoordinate formats f the way the API does.
func FloatCoordinate(f float64) Coordinate {
	return Coordinate(strconv.FormatFloat(f, 'f', -1, 64))
}
