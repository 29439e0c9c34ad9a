package neighbourhood

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/police-explorer/internal/police"
)

// fakeFetcher serves canned data and records the order of calls. A stage in
// fail returns that error; a stage in block waits until its channel is
// closed or the context ends.
type fakeFetcher struct {
	details  police.NeighbourhoodDetails
	team     []police.TeamMember
	events   []police.Event
	boundary []police.BoundaryPoint
	crimes   []police.CrimeRecord

	fail  map[police.Stage]error
	block map[police.Stage]chan struct{}

	mu        sync.Mutex
	calls     []police.Stage
	crimePoly string
	crimeDate string
}

func (f *fakeFetcher) enter(ctx context.Context, stage police.Stage) error {
	f.mu.Lock()
	f.calls = append(f.calls, stage)
	f.mu.Unlock()

	if ch, ok := f.block[stage]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fail[stage]
}

func (f *fakeFetcher) stages() []police.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]police.Stage(nil), f.calls...)
}

func (f *fakeFetcher) Details(ctx context.Context, _, _ string) (police.NeighbourhoodDetails, error) {
	if err := f.enter(ctx, police.StageDetails); err != nil {
		return police.NeighbourhoodDetails{}, err
	}
	return f.details, nil
}

func (f *fakeFetcher) Team(ctx context.Context, _, _ string) ([]police.TeamMember, error) {
	if err := f.enter(ctx, police.StageTeam); err != nil {
		return nil, err
	}
	return f.team, nil
}

func (f *fakeFetcher) Events(ctx context.Context, _, _ string) ([]police.Event, error) {
	if err := f.enter(ctx, police.StageEvents); err != nil {
		return nil, err
	}
	return f.events, nil
}

func (f *fakeFetcher) Boundary(ctx context.Context, _, _ string) ([]police.BoundaryPoint, error) {
	if err := f.enter(ctx, police.StageBoundary); err != nil {
		return nil, err
	}
	return f.boundary, nil
}

func (f *fakeFetcher) Crimes(ctx context.Context, poly, month string) ([]police.CrimeRecord, error) {
	f.mu.Lock()
	f.crimePoly, f.crimeDate = poly, month
	f.mu.Unlock()
	if err := f.enter(ctx, police.StageCrimes); err != nil {
		return nil, err
	}
	return f.crimes, nil
}
