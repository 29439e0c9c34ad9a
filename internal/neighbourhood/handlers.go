package neighbourhood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EmpoweredVote/police-explorer/internal/police"
	"github.com/EmpoweredVote/police-explorer/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionHeader identifies a browser tab. Aggregations sharing a value
// supersede each other.
const SessionHeader = "X-Session-ID"

// Lister lists forces and neighbourhoods. *police.Client implements it.
type Lister interface {
	Forces(ctx context.Context) ([]police.Force, error)
	Neighbourhoods(ctx context.Context, forceID string) ([]police.Neighbourhood, error)
}

var _ Lister = (*police.Client)(nil)

// Handler serves the police endpoints.
type Handler struct {
	lister   Lister
	registry *Registry
	log      *zap.Logger
}

// NewHandler wires a Handler.
func NewHandler(l Lister, reg *Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{lister: l, registry: reg, log: log}
}

type errorBody struct {
	Error  string `json:"error"`
	Stage  string `json:"stage,omitempty"`
	Status int    `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func addServerTiming(w http.ResponseWriter, name string, d time.Duration) {
	w.Header().Add("Server-Timing", fmt.Sprintf("%s;dur=%.1f", name, float64(d.Microseconds())/1000))
}

// GetForces lists every force.
func (h *Handler) GetForces(w http.ResponseWriter, r *http.Request) {
	t0 := time.Now()
	forces, err := h.lister.Forces(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addServerTiming(w, "upstream", time.Since(t0))
	writeJSON(w, forces)
}

// GetNeighbourhoods lists the neighbourhoods of {force}.
func (h *Handler) GetNeighbourhoods(w http.ResponseWriter, r *http.Request) {
	force := chi.URLParam(r, "force")

	t0 := time.Now()
	list, err := h.lister.Neighbourhoods(r.Context(), force)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addServerTiming(w, "upstream", time.Since(t0))
	writeJSON(w, list)
}

// GetNeighbourhood aggregates {force}/{neighbourhood} into a View.
func (h *Handler) GetNeighbourhood(w http.ResponseWriter, r *http.Request) {
	force := chi.URLParam(r, "force")
	nbhd := chi.URLParam(r, "neighbourhood")

	t0 := time.Now()
	agg, err := h.registry.Aggregate(r.Context(), r.Header.Get(SessionHeader), force, nbhd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addServerTiming(w, "aggregate", time.Since(t0))
	writeJSON(w, NewView(agg))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := utils.GetRequestIDFromContext(r.Context())

	var (
		statusErr  *police.HTTPStatusError
		timeoutErr *police.TimeoutError
		netErr     *police.NetworkError
		decodeErr  *police.DecodeError
		noBoundary *NoBoundaryDataError
	)
	switch {
	case errors.Is(err, ErrSuperseded), errors.Is(err, context.Canceled):
		// A newer selection replaced this one, or the client went away.
		h.log.Debug("dropping superseded request",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID))
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, ErrMissingSelection):
		writeStatus(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	case errors.As(err, &noBoundary):
		writeStatus(w, http.StatusNotFound, errorBody{Error: err.Error(), Stage: string(police.StageBoundary)})
	case errors.As(err, &statusErr):
		writeStatus(w, http.StatusBadGateway, errorBody{Error: err.Error(), Stage: string(statusErr.Stage), Status: statusErr.StatusCode})
	case errors.As(err, &timeoutErr):
		writeStatus(w, http.StatusGatewayTimeout, errorBody{Error: err.Error(), Stage: string(timeoutErr.Stage)})
	case errors.As(err, &netErr):
		writeStatus(w, http.StatusBadGateway, errorBody{Error: err.Error(), Stage: string(netErr.Stage)})
	case errors.As(err, &decodeErr):
		writeStatus(w, http.StatusBadGateway, errorBody{Error: err.Error(), Stage: string(decodeErr.Stage)})
	default:
		writeStatus(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}

	h.log.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID),
		zap.Error(err))
}

func writeStatus(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
