package storefront

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/checkout"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

const (
	defaultIdleTTL       = 2 * time.Hour
	defaultSweepInterval = 5 * time.Minute
)

// FlowFactory builds a checkout flow bound to a session's cart.
type FlowFactory func(sessionID string, c *cart.Engine) (*checkout.Flow, error)

type sessionGauge interface {
	SetActiveSessions(n int)
}

// Session is one buyer's browsing state: a cart and at most one checkout.
type Session struct {
	ID   string
	Cart *cart.Engine

	mu       sync.Mutex
	flow     *checkout.Flow
	lastSeen time.Time
}

// Checkout returns the current flow or a not-found error.
func (s *Session) Checkout() (*checkout.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flow == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
	}
	return s.flow, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Options tunes a Registry. Zero values fall back to defaults.
type Options struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	NewFlow       FlowFactory
	Gauge         sessionGauge
	Logger        *logger.Logger
	Now           func() time.Time
}

// Registry holds live sessions in memory. Nothing survives a restart.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl     time.Duration
	sweep   time.Duration
	newFlow FlowFactory
	gauge   sessionGauge
	logg    *logger.Logger
	now     func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewRegistry(opts Options) (*Registry, error) {
	if opts.NewFlow == nil {
		return nil, fmt.Errorf("checkout flow factory required")
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		sessions: map[string]*Session{},
		ttl:      opts.IdleTTL,
		sweep:    opts.SweepInterval,
		newFlow:  opts.NewFlow,
		gauge:    opts.Gauge,
		logg:     opts.Logger,
		now:      opts.Now,
		stop:     make(chan struct{}),
	}, nil
}

// Resolve returns the session for id, creating a fresh one when id is
// empty, malformed or unknown. The second value reports creation.
func (r *Registry) Resolve(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	now := r.now()

	r.mu.Lock()
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := r.sessions[id]; ok {
			r.mu.Unlock()
			s.touch(now)
			return s, false
		}
	}
	s := &Session{ID: uuid.NewString(), Cart: cart.NewEngine(), lastSeen: now}
	r.sessions[s.ID] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.report(count)
	return s, true
}

// StartCheckout begins a checkout for the session. An unfinished flow is
// returned as is; a cancelled or submitted one is replaced.
func (r *Registry) StartCheckout(s *Session) (*checkout.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flow != nil && !s.flow.Done() {
		return s.flow, nil
	}
	if s.Cart.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	flow, err := r.newFlow(s.ID, s.Cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start checkout")
	}
	s.flow = flow
	return flow, nil
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many.
// Sessions with a submit in flight are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	evicted := 0
	for id, s := range r.sessions {
		if !s.idleSince().Before(cutoff) {
			continue
		}
		if flow, err := s.Checkout(); err == nil && flow.Snapshot().InFlight {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	count := len(r.sessions)
	r.mu.Unlock()

	r.report(count)
	return evicted
}

// Start runs the idle janitor until Stop is called or ctx ends.
func (r *Registry) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.logg.Info(r.logg.WithField(ctx, "evicted", n), "storefront.sessions_evicted")
				}
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit.
func (r *Registry) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Registry) report(count int) {
	if r.gauge != nil {
		r.gauge.SetActiveSessions(count)
	}
}
