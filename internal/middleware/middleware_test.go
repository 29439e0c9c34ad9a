package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EmpoweredVote/police-explorer/internal/middleware"
	"github.com/EmpoweredVote/police-explorer/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// call wraps a simple 200-OK inner handler in the provided middleware and
// returns the recorded response.
func call(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec
}

// TestCORS_AllowedOrigin verifies that an allow-listed origin is echoed back.
func TestCORS_AllowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/police/forces", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := call(t, mw, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin to be echoed, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

// TestCORS_UnknownOrigin verifies that an origin off the list gets no
// Allow-Origin header.
func TestCORS_UnknownOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/police/forces", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := call(t, mw, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}

// TestCORS_Preflight verifies that OPTIONS short-circuits with 204.
func TestCORS_Preflight(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/police/forces", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := call(t, mw, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

// TestRequestID_Generated verifies a fresh ID is minted, echoed and put in
// the context when the client sends none.
func TestRequestID_Generated(t *testing.T) {
	var fromCtx string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = utils.GetRequestIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	middleware.RequestID(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(middleware.RequestIDHeader)
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("expected a UUID request ID, got %q", header)
	}
	if fromCtx != header {
		t.Errorf("context ID %q does not match header %q", fromCtx, header)
	}
}

// TestRequestID_Reused verifies a well-formed incoming ID is kept.
func TestRequestID_Reused(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, id)

	rec := call(t, middleware.RequestID, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != id {
		t.Errorf("expected %q, got %q", id, got)
	}
}

// TestAccessLog verifies one entry per request with the final status.
func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mw := middleware.AccessLog(zap.New(core))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/police/forces", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("expected status 418 in log, got %v", fields["status"])
	}
	if fields["path"] != "/police/forces" {
		t.Errorf("unexpected path in log: %v", fields["path"])
	}
}
