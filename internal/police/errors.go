package police

import (
	"fmt"
	"time"
)

// Stage names one upstream lookup. It appears in errors, logs and metrics.
type Stage string

const (
	StageForces         Stage = "forces"
	StageNeighbourhoods Stage = "neighbourhoods"
	StageDetails        Stage = "details"
	StageTeam           Stage = "team"
	StageEvents         Stage = "events"
	StageBoundary       Stage = "boundary"
	StageCrimes         Stage = "crimes"
)

// NetworkError is a transport-level failure talking to the API.
type NetworkError struct {
	Stage Stage
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Stage, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-2xx response from the API.
type HTTPStatusError struct {
	Stage      Stage
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status %d", e.Stage, e.StatusCode)
}

// TimeoutError reports a lookup that exceeded its deadline.
type TimeoutError struct {
	Stage   Stage
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("failed to fetch %s: timed out after %s", e.Stage, e.Timeout)
}

// DecodeError is a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
