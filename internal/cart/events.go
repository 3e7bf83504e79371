package cart

// EventKind names a cart state change.
type EventKind string

const (
	EventLineAdded   EventKind = "line_added"
	EventLineUpdated EventKind = "line_updated"
	EventLineRemoved EventKind = "line_removed"
	EventCleared     EventKind = "cleared"
)

// Event is delivered to subscribers after the change has been applied.
type Event struct {
	Kind     EventKind
	ItemID   string
	Quantity int
}

// Subscribe registers fn for every subsequent change. Callbacks run on the
// goroutine that made the change, outside the engine lock.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.watchers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.watchers, id)
		e.mu.Unlock()
	}
}

func (e *Engine) snapshotWatchers() []func(Event) {
	if len(e.watchers) == 0 {
		return nil
	}
	out := make([]func(Event), 0, len(e.watchers))
	for _, fn := range e.watchers {
		out = append(out, fn)
	}
	return out
}

func notify(watchers []func(Event), ev Event) {
	for _, fn := range watchers {
		fn(ev)
	}
}
