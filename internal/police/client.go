package police

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EmpoweredVote/police-explorer/internal/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public data.police.uk API root.
	DefaultBaseURL = "https://data.police.uk/api"

	// DefaultTimeout bounds every individual API call.
	DefaultTimeout = 15 * time.Second
)

// Client is an HTTP client for the data.police.uk API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forces lists every force.
func (c *Client) Forces(ctx context.Context) ([]Force, error) {
	return getList[Force](ctx, c, StageForces, "/forces", nil)
}

// Neighbourhoods lists the neighbourhoods of a force.
func (c *Client) Neighbourhoods(ctx context.Context, forceID string) ([]Neighbourhood, error) {
	return getList[Neighbourhood](ctx, c, StageNeighbourhoods, pathFor(forceID, "neighbourhoods"), nil)
}

// Details fetches the descriptive record of a neighbourhood.
func (c *Client) Details(ctx context.Context, forceID, neighbourhoodID string) (NeighbourhoodDetails, error) {
	var out NeighbourhoodDetails
	if err := c.getJSON(ctx, StageDetails, pathFor(forceID, neighbourhoodID), nil, &out, func() int { return 1 }); err != nil {
		return NeighbourhoodDetails{}, err
	}
	return out, nil
}

// Team fetches the officers assigned to a neighbourhood.
func (c *Client) Team(ctx context.Context, forceID, neighbourhoodID string) ([]TeamMember, error) {
	return getList[TeamMember](ctx, c, StageTeam, pathFor(forceID, neighbourhoodID, "people"), nil)
}

// Events fetches upcoming community events for a neighbourhood.
func (c *Client) Events(ctx context.Context, forceID, neighbourhoodID string) ([]Event, error) {
	return getList[Event](ctx, c, StageEvents, pathFor(forceID, neighbourhoodID, "events"), nil)
}

// Boundary fetches the boundary outline of a neighbourhood.
func (c *Client) Boundary(ctx context.Context, forceID, neighbourhoodID string) ([]BoundaryPoint, error) {
	return getList[BoundaryPoint](ctx, c, StageBoundary, pathFor(forceID, neighbourhoodID, "boundary"), nil)
}

// Crimes fetches all street-level crimes inside poly for month (YYYY-MM).
// poly is the unescaped "lat,lng:lat,lng" form; it is percent-encoded here.
func (c *Client) Crimes(ctx context.Context, poly, month string) ([]CrimeRecord, error) {
	params := url.Values{}
	params.Set("date", month)
	params.Set("poly", poly)
	return getList[CrimeRecord](ctx, c, StageCrimes, "/crimes-street/all-crime", params)
}

func pathFor(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func getList[T any](ctx context.Context, c *Client, stage Stage, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.getJSON(ctx, stage, path, query, &out, func() int { return len(out) }); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, stage Stage, path string, query url.Values, out any, count func() int) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, query.Encode())
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	logRequest(c.log, stage, http.MethodGet, fullURL)

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", stage, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(stage, start, "fetch", c.classify(ctx, stage, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(stage, start, "fetch", &HTTPStatusError{Stage: stage, StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if callCtx.Err() != nil {
			return c.fail(stage, start, "fetch", c.classify(ctx, stage, err))
		}
		return c.fail(stage, start, "decode", &DecodeError{Stage: stage, Err: err})
	}

	elapsed := time.Since(start)
	metrics.UpstreamRequestsTotal.WithLabelValues(string(stage), "ok").Inc()
	metrics.UpstreamDurationMs.WithLabelValues(string(stage)).Observe(float64(elapsed.Milliseconds()))
	logResponse(c.log, stage, resp.StatusCode, elapsed, count())
	return nil
}

// classify turns a transport error into the caller's cancellation, a
// TimeoutError or a NetworkError. parent is the caller's context, so a
// cancelled selection is reported as context.Canceled rather than a
// network fault.
func (c *Client) classify(parent context.Context, stage Stage, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", stage, context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Stage: stage, Timeout: c.timeout}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Stage: stage, Timeout: c.timeout}
	}
	return &NetworkError{Stage: stage, Err: err}
}

func (c *Client) fail(stage Stage, start time.Time, operation string, err error) error {
	outcome := "error"
	var (
		statusErr  *HTTPStatusError
		timeoutErr *TimeoutError
	)
	switch {
	case errors.Is(err, context.Canceled):
		outcome = "cancelled"
	case errors.As(err, &statusErr):
		outcome = "status"
	case errors.As(err, &timeoutErr):
		outcome = "timeout"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(string(stage), outcome).Inc()
	metrics.UpstreamDurationMs.WithLabelValues(string(stage)).Observe(float64(time.Since(start).Milliseconds()))
	if outcome != "cancelled" {
		logError(c.log, stage, operation, err)
	}
	return err
}
