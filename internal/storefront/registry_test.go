package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/pricing"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
)

type nopGateway struct{}

func (nopGateway) CreateOrder(context.Context, gateway.OrderRequest) (*gateway.OrderResult, error) {
	return &gateway.OrderResult{OrderID: "ord", Status: gateway.StatusCompleted}, nil
}

type stubGauge struct {
	mu   sync.Mutex
	last int
}

func (g *stubGauge) SetActiveSessions(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRegistry(t *testing.T, clk *clock, gauge *stubGauge) *Registry {
	t.Helper()
	calc, err := pricing.NewCalculator(pricing.DefaultConfig())
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	opts := Options{
		IdleTTL:       time.Hour,
		SweepInterval: 10 * time.Millisecond,
		Now:           clk.Now,
		NewFlow: func(sessionID string, c *cart.Engine) (*checkout.Flow, error) {
			return checkout.NewFlow(checkout.Deps{SessionID: sessionID, Cart: c, Pricing: calc, Gateway: nopGateway{}})
		},
	}
	// A typed nil would make the gauge interface non-nil.
	if gauge != nil {
		opts.Gauge = gauge
	}
	reg, err := NewRegistry(opts)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestResolveCreatesAndReuses(t *testing.T) {
	clk := &clock{now: time.Unix(1_800_000_000, 0)}
	gauge := &stubGauge{}
	reg := newRegistry(t, clk, gauge)

	first, created := reg.Resolve("")
	if !created || first.ID == "" {
		t.Fatalf("expected new session")
	}
	again, created := reg.Resolve(first.ID)
	if created || again != first {
		t.Fatalf("expected same session to be returned")
	}
	other, created := reg.Resolve("not-a-uuid")
	if !created || other.ID == first.ID {
		t.Fatalf("malformed id should yield a new session")
	}
	if reg.Len() != 2 || gauge.last != 2 {
		t.Fatalf("expected 2 sessions, len=%d gauge=%d", reg.Len(), gauge.last)
	}
}

func TestStartCheckoutLifecycle(t *testing.T) {
	clk := &clock{now: time.Now()}
	reg := newRegistry(t, clk, nil)
	s, _ := reg.Resolve("")

	if _, err := s.Checkout(); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected no checkout, got %v", err)
	}
	if _, err := reg.StartCheckout(s); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty cart must not start checkout, got %v", err)
	}

	s.Cart.Add(catalog.DefaultCollection()[0])
	flow, err := reg.StartCheckout(s)
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	same, _ := reg.StartCheckout(s)
	if same != flow {
		t.Fatalf("unfinished flow should be resumed")
	}

	_ = flow.Cancel()
	fresh, err := reg.StartCheckout(s)
	if err != nil || fresh == flow {
		t.Fatalf("cancelled flow should be replaced: %v", err)
	}
	if fresh.Snapshot().Cancelled {
		t.Fatalf("replacement flow must start clean")
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	clk := &clock{now: time.Unix(1_800_000_000, 0)}
	gauge := &stubGauge{}
	reg := newRegistry(t, clk, gauge)

	stale, _ := reg.Resolve("")
	clk.advance(50 * time.Minute)
	fresh, _ := reg.Resolve("")
	clk.advance(20 * time.Minute)

	if n := reg.Sweep(); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if _, created := reg.Resolve(stale.ID); !created {
		t.Fatalf("stale session should be gone")
	}
	if _, created := reg.Resolve(fresh.ID); created {
		t.Fatalf("fresh session should survive")
	}
	if gauge.last != reg.Len() {
		t.Fatalf("gauge out of sync: %d vs %d", gauge.last, reg.Len())
	}
}

func TestJanitorStops(t *testing.T) {
	clk := &clock{now: time.Unix(1_800_000_000, 0)}
	reg := newRegistry(t, clk, nil)
	reg.Resolve("")
	clk.advance(2 * time.Hour)

	reg.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for reg.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("janitor did not evict idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}
	reg.Stop()
	reg.Stop()
}

func TestRegistryWithoutGauge(t *testing.T) {
	clk := &clock{now: time.Unix(1_800_000_000, 0)}
	reg := newRegistry(t, clk, nil)

	sess, created := reg.Resolve("")
	if !created {
		t.Fatal("expected a new session")
	}
	clk.advance(2 * time.Hour)
	if n := reg.Sweep(); n != 1 {
		t.Fatalf("evicted %d sessions, want 1", n)
	}
	if _, created := reg.Resolve(sess.ID); !created {
		t.Fatal("idle session should have been evicted")
	}
}
