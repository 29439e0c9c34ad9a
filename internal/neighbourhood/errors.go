package neighbourhood

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSuperseded is returned to a selection that was replaced by a newer
	// one before it finished. Callers drop it instead of showing it.
	ErrSuperseded = errors.New("aggregation superseded by a newer selection")

	ErrMissingSelection = errors.New("force and neighbourhood are required")
	ErrUnknownPolicy    = errors.New("unknown empty boundary policy")
)

// NoBoundaryDataError is returned under EmptyBoundaryStrict when a
// neighbourhood has no boundary to query crimes with.
type NoBoundaryDataError struct {
	Force         string
	Neighbourhood string
}

func (e *NoBoundaryDataError) Error() string {
	return fmt.Sprintf("no boundary data available for %s/%s", e.Force, e.Neighbourhood)
}

// EmptyBoundaryPolicy decides what an empty boundary means.
type EmptyBoundaryPolicy int

const (
	// EmptyBoundaryAllowed treats an empty boundary as a successful
	// aggregate with no crimes and no stats.
	EmptyBoundaryAllowed EmptyBoundaryPolicy = iota
	// EmptyBoundaryStrict fails the aggregation with NoBoundaryDataError.
	EmptyBoundaryStrict
)

func (p EmptyBoundaryPolicy) String() string {
	if p == EmptyBoundaryStrict {
		return "strict"
	}
	return "allow"
}

// ParseEmptyBoundaryPolicy accepts "allow" (or "") and "strict".
func ParseEmptyBoundaryPolicy(s string) (EmptyBoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return EmptyBoundaryAllowed, nil
	case "strict":
		return EmptyBoundaryStrict, nil
	}
	return EmptyBoundaryAllowed, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
