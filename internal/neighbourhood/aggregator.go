package neighbourhood

import (
	"context"
	"errors"
	"time"

	"github.com/EmpoweredVote/police-explorer/internal/metrics"
	"github.com/EmpoweredVote/police-explorer/internal/police"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the subset of the police API the aggregator needs.
// *police.Client implements it.
type Fetcher interface {
	Details(ctx context.Context, forceID, neighbourhoodID string) (police.NeighbourhoodDetails, error)
	Team(ctx context.Context, forceID, neighbourhoodID string) ([]police.TeamMember, error)
	Events(ctx context.Context, forceID, neighbourhoodID string) ([]police.Event, error)
	Boundary(ctx context.Context, forceID, neighbourhoodID string) ([]police.BoundaryPoint, error)
	Crimes(ctx context.Context, poly, month string) ([]police.CrimeRecord, error)
}

var _ Fetcher = (*police.Client)(nil)

// Aggregate is everything the dashboard shows for one neighbourhood.
// Month and Polygon are empty when no crime query was made.
type Aggregate struct {
	Force         string                      `json:"force"`
	Neighbourhood string                      `json:"neighbourhood"`
	Details       police.NeighbourhoodDetails `json:"details"`
	Team          []police.TeamMember         `json:"team"`
	Events        []police.Event              `json:"events"`
	Boundary      []police.BoundaryPoint      `json:"boundary"`
	Polygon       []police.BoundaryPoint      `json:"polygon"`
	Month         string                      `json:"month,omitempty"`
	Crimes        []police.CrimeRecord        `json:"crimes"`
	Stats         []CrimeStat                 `json:"stats"`
}

// Aggregator runs the neighbourhood lookup pipeline. It holds no state
// between calls and is safe for concurrent use.
type Aggregator struct {
	fetcher  Fetcher
	now      func() time.Time
	policy   EmptyBoundaryPolicy
	parallel bool
	log      *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock injects the time source used to pick the crime month.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithEmptyBoundaryPolicy sets how an empty boundary is reported.
func WithEmptyBoundaryPolicy(p EmptyBoundaryPolicy) Option {
	return func(a *Aggregator) { a.policy = p }
}

// WithParallelFetch fetches team and events concurrently.
func WithParallelFetch(enabled bool) Option {
	return func(a *Aggregator) { a.parallel = enabled }
}

// WithLogger sets the aggregator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAggregator creates an Aggregator over f.
func NewAggregator(f Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: f,
		now:     time.Now,
		policy:  EmptyBoundaryAllowed,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fetches details, team, events and boundary in that order, then
// street crime for the simplified boundary six months back, and derives
// the category stats. Any failing stage aborts the whole call; no partial
// aggregate is ever returned.
func (a *Aggregator) Aggregate(ctx context.Context, forceID, neighbourhoodID string) (*Aggregate, error) {
	if forceID == "" || neighbourhoodID == "" {
		return nil, ErrMissingSelection
	}

	start := time.Now()
	agg, err := a.run(ctx, forceID, neighbourhoodID)
	metrics.AggregationDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.AggregationsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.log.Warn("aggregation failed",
				zap.String("force", forceID),
				zap.String("neighbourhood", neighbourhoodID),
				zap.Error(err))
		}
		return nil, err
	}

	a.log.Info("aggregated neighbourhood",
		zap.String("force", forceID),
		zap.String("neighbourhood", neighbourhoodID),
		zap.Int("boundary", len(agg.Boundary)),
		zap.Int("crimes", len(agg.Crimes)),
		zap.Int("categories", len(agg.Stats)),
		zap.Duration("took", time.Since(start)))
	return agg, nil
}

func (a *Aggregator) run(ctx context.Context, forceID, neighbourhoodID string) (*Aggregate, error) {
	details, err := a.fetcher.Details(ctx, forceID, neighbourhoodID)
	if err != nil {
		return nil, err
	}

	team, events, err := a.teamAndEvents(ctx, forceID, neighbourhoodID)
	if err != nil {
		return nil, err
	}

	boundary, err := a.fetcher.Boundary(ctx, forceID, neighbourhoodID)
	if err != nil {
		return nil, err
	}

	agg := &Aggregate{
		Force:         forceID,
		Neighbourhood: neighbourhoodID,
		Details:       details,
		Team:          nonNil(team),
		Events:        nonNil(events),
		Boundary:      nonNil(boundary),
		Polygon:       []police.BoundaryPoint{},
		Crimes:        []police.CrimeRecord{},
		Stats:         []CrimeStat{},
	}
	agg.Details.Priorities = nonNil(agg.Details.Priorities)

	if len(boundary) == 0 {
		if a.policy == EmptyBoundaryStrict {
			return nil, &NoBoundaryDataError{Force: forceID, Neighbourhood: neighbourhoodID}
		}
		return agg, nil
	}

	agg.Polygon = SimplifyPolygon(boundary)
	agg.Month = CrimeMonth(a.now())

	crimes, err := a.fetcher.Crimes(ctx, EncodePolygon(agg.Polygon), agg.Month)
	if err != nil {
		return nil, err
	}
	agg.Crimes = nonNil(crimes)
	agg.Stats = AggregateCategories(agg.Crimes)
	return agg, nil
}

func (a *Aggregator) teamAndEvents(ctx context.Context, forceID, neighbourhoodID string) ([]police.TeamMember, []police.Event, error) {
	if !a.parallel {
		team, err := a.fetcher.Team(ctx, forceID, neighbourhoodID)
		if err != nil {
			return nil, nil, err
		}
		events, err := a.fetcher.Events(ctx, forceID, neighbourhoodID)
		if err != nil {
			return nil, nil, err
		}
		return team, events, nil
	}

	var (
		team   []police.TeamMember
		events []police.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		team, err = a.fetcher.Team(gctx, forceID, neighbourhoodID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = a.fetcher.Events(gctx, forceID, neighbourhoodID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return team, events, nil
}

func outcome(err error) string {
	var noBoundary *NoBoundaryDataError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.As(err, &noBoundary):
		return "no_boundary"
	}
	return "error"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
