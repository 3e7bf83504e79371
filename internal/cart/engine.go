package cart

import (
	"sync"

	"github.com/daghlis/gallery-backend/internal/catalog"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// Line is one artwork in the cart. Price and display fields are captured
// when the artwork is first added and do not follow later catalog edits.
type Line struct {
	ItemID    string
	Title     types.LocalizedText
	Image     string
	Size      string
	Year      int
	UnitPrice money.Amount
	Quantity  int
}

// Total is UnitPrice times Quantity.
func (l Line) Total() money.Amount {
	return l.UnitPrice.Mul(l.Quantity)
}

func (l Line) clone() Line {
	out := l
	out.Title = l.Title.Clone()
	return out
}

// Engine owns the cart of a single browsing session.
type Engine struct {
	mu       sync.Mutex
	lines    []Line
	index    map[string]int
	watchers map[int]func(Event)
	nextSub  int
}

func NewEngine() *Engine {
	return &Engine{
		index:    map[string]int{},
		watchers: map[int]func(Event){},
	}
}

// Add puts one unit of item in the cart. A repeated add bumps the quantity
// and keeps the snapshot taken the first time.
func (e *Engine) Add(item catalog.Item) {
	e.mu.Lock()
	var ev Event
	if i, ok := e.index[item.ID]; ok {
		e.lines[i].Quantity++
		ev = Event{Kind: EventLineUpdated, ItemID: item.ID, Quantity: e.lines[i].Quantity}
	} else {
		e.index[item.ID] = len(e.lines)
		e.lines = append(e.lines, Line{
			ItemID:    item.ID,
			Title:     item.Title.Clone(),
			Image:     item.Image,
			Size:      item.Size,
			Year:      item.Year,
			UnitPrice: item.Price,
			Quantity:  1,
		})
		ev = Event{Kind: EventLineAdded, ItemID: item.ID, Quantity: 1}
	}
	watchers := e.snapshotWatchers()
	e.mu.Unlock()
	notify(watchers, ev)
}

// Remove drops the line for itemID. Unknown ids are ignored.
func (e *Engine) Remove(itemID string) {
	e.mu.Lock()
	removed := e.removeLocked(itemID)
	watchers := e.snapshotWatchers()
	e.mu.Unlock()
	if removed {
		notify(watchers, Event{Kind: EventLineRemoved, ItemID: itemID})
	}
}

// SetQuantity replaces the quantity of an existing line. Zero removes the
// line and a negative quantity is rejected. Missing lines are left alone.
func (e *Engine) SetQuantity(itemID string, qty int) error {
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative").
			WithDetails(map[string]any{"item_id": itemID, "quantity": qty})
	}
	if qty == 0 {
		e.Remove(itemID)
		return nil
	}

	e.mu.Lock()
	i, ok := e.index[itemID]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	e.lines[i].Quantity = qty
	watchers := e.snapshotWatchers()
	e.mu.Unlock()

	notify(watchers, Event{Kind: EventLineUpdated, ItemID: itemID, Quantity: qty})
	return nil
}

func (e *Engine) TotalItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, l := range e.lines {
		count += l.Quantity
	}
	return count
}

// TotalPrice sums the snapshot prices of every line.
func (e *Engine) TotalPrice() money.Amount {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total money.Amount
	for _, l := range e.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Lines returns a copy of the lines in the order they were first added.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	for i, l := range e.lines {
		out[i] = l.clone()
	}
	return out
}

// Len is the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = nil
	e.index = map[string]int{}
	watchers := e.snapshotWatchers()
	e.mu.Unlock()
	notify(watchers, Event{Kind: EventCleared})
}

// RemoveOrdered takes the ordered quantities out of the cart after a
// successful submit. Units added while the order was in flight stay.
func (e *Engine) RemoveOrdered(ordered []Line) {
	e.mu.Lock()
	var events []Event
	for _, o := range ordered {
		i, ok := e.index[o.ItemID]
		if !ok {
			continue
		}
		left := e.lines[i].Quantity - o.Quantity
		if left > 0 {
			e.lines[i].Quantity = left
			events = append(events, Event{Kind: EventLineUpdated, ItemID: o.ItemID, Quantity: left})
			continue
		}
		e.removeLocked(o.ItemID)
		events = append(events, Event{Kind: EventLineRemoved, ItemID: o.ItemID})
	}
	if len(e.lines) == 0 && len(events) > 0 {
		events = append(events, Event{Kind: EventCleared})
	}
	watchers := e.snapshotWatchers()
	e.mu.Unlock()
	for _, ev := range events {
		notify(watchers, ev)
	}
}

func (e *Engine) removeLocked(itemID string) bool {
	i, ok := e.index[itemID]
	if !ok {
		return false
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	delete(e.index, itemID)
	for j := i; j < len(e.lines); j++ {
		e.index[e.lines[j].ItemID] = j
	}
	return true
}
