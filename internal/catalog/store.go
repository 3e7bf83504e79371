package catalog

import (
	"strconv"
	"strings"
	"sync"

	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category      enums.ArtworkCategory
	AvailableOnly bool
}

// Stats summarises the collection for the admin dashboard.
type Stats struct {
	Total     int
	Available int
	Sold      int
}

// Store is the in-memory artwork catalog. It hands out copies; updates
// replace an item wholesale.
type Store struct {
	mu     sync.RWMutex
	items  map[string]Item
	order  []string
	nextID int
}

// NewStore builds a store seeded with items. Seed ids must be unique.
func NewStore(seed ...Item) (*Store, error) {
	s := &Store{items: make(map[string]Item, len(seed)), nextID: 1}
	for _, item := range seed {
		if _, err := s.Create(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get returns the item with id or a not-found error.
func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return Item{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "artwork %s not found", id)
	}
	return item.Clone(), nil
}

// List returns matching items in insertion order.
func (s *Store) List(f Filter) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.AvailableOnly && !item.Available {
			continue
		}
		out = append(out, item.Clone())
	}
	return out
}

// Create adds a new artwork. An empty id is assigned the next numeric id.
func (s *Store) Create(item Item) (Item, error) {
	item.ID = strings.TrimSpace(item.ID)
	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		for {
			candidate := strconv.Itoa(s.nextID)
			s.nextID++
			if _, taken := s.items[candidate]; !taken {
				item.ID = candidate
				break
			}
		}
	}
	if _, exists := s.items[item.ID]; exists {
		return Item{}, pkgerrors.Newf(pkgerrors.CodeConflict, "artwork %s already exists", item.ID)
	}
	if n, err := strconv.Atoi(item.ID); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}

	stored := item.Clone()
	s.items[item.ID] = stored
	s.order = append(s.order, item.ID)
	return stored.Clone(), nil
}

// Update replaces the artwork with id. The id in item is ignored.
func (s *Store) Update(id string, item Item) (Item, error) {
	item.ID = id
	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return Item{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "artwork %s not found", id)
	}
	stored := item.Clone()
	s.items[id] = stored
	return stored.Clone(), nil
}

// Delete removes the artwork. Deletion must be explicitly confirmed.
func (s *Store) Delete(id string, confirmed bool) error {
	if !confirmed {
		return pkgerrors.New(pkgerrors.CodeValidation, "delete requires confirmation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "artwork %s not found", id)
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Stats counts total, available and sold (unavailable) artworks.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.items)}
	for _, item := range s.items {
		if item.Available {
			st.Available++
		} else {
			st.Sold++
		}
	}
	return st
}
