package checkout

import "github.com/daghlis/gallery-backend/pkg/enums"

type EventKind string

const (
	EventStepChanged   EventKind = "step_changed"
	EventSubmitStarted EventKind = "submit_started"
	EventSubmitFailed  EventKind = "submit_failed"
	EventSubmitted     EventKind = "submitted"
	EventCancelled     EventKind = "cancelled"
)

// Event is delivered to subscribers after the flow changed.
type Event struct {
	Kind EventKind
	Step enums.CheckoutStep
	Err  error
}

// Subscribe registers fn until the returned func is called.
func (f *Flow) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.watchers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.watchers, id)
		f.mu.Unlock()
	}
}

func (f *Flow) snapshotWatchersLocked() []func(Event) {
	if len(f.watchers) == 0 {
		return nil
	}
	out := make([]func(Event), 0, len(f.watchers))
	for _, fn := range f.watchers {
		out = append(out, fn)
	}
	return out
}

func notify(watchers []func(Event), ev Event) {
	for _, fn := range watchers {
		fn(ev)
	}
}
