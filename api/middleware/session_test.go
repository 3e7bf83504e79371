package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/storefront"
)

func newTestRegistry(t *testing.T) *storefront.Registry {
	t.Helper()
	reg, err := storefront.NewRegistry(storefront.Options{
		NewFlow: func(string, *cart.Engine) (*checkout.Flow, error) {
			return nil, errors.New("checkout not used")
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestStorefrontSessionCreatesAndReuses(t *testing.T) {
	reg := newTestRegistry(t)
	var seen string
	handler := StorefrontSession(reg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		if s == nil {
			t.Fatalf("expected session in context")
		}
		seen = s.ID
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get(SessionHeader)
	if id == "" || id != seen {
		t.Fatalf("expected echoed session id, got %q vs %q", id, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, id)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get(SessionHeader) != id || reg.Len() != 1 {
		t.Fatalf("expected the same session to be reused, registry has %d", reg.Len())
	}
}

type recordingObserver struct {
	method string
	route  string
	status int
}

func (o *recordingObserver) Observe(method, route string, status int, _ time.Duration) {
	o.method, o.route, o.status = method, route, status
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Logging(nil, obs))
	r.Get("/api/v1/catalog/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/3", nil))

	if obs.route != "/api/v1/catalog/{itemId}" || obs.status != http.StatusTeapot || obs.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", obs)
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	handler := RequestID(nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "req-1" {
		t.Fatalf("expected request id echoed")
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	handler := RequestID(nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "has spaces and\nnewlines")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	got := rec.Header().Get("X-Request-Id")
	if got == "" || got == req.Header.Get("X-Request-Id") {
		t.Fatalf("expected a generated request id, got %q", got)
	}
}
