package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/core/persist"
	"github.com/hay-kot/skillshop/internal/core/storage"
)

// Store owns the cart for the lifetime of the client. Every mutation persists the
// full item list before returning.
type Store struct {
	storage storage.Store
	log     zerolog.Logger

	mu    sync.RWMutex
	items []Item
}

// New creates an empty Store. Call Restore to load the persisted cart.
func New(store storage.Store, log zerolog.Logger) *Store {
	return &Store{storage: store, log: log}
}

// Restore loads the persisted cart. A missing or malformed record yields an empty
// cart. Invalid items are dropped and duplicate ids keep their first occurrence.
func (s *Store) Restore(ctx context.Context) {
	items := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *Store) load(ctx context.Context) []Item {
	entry, err := s.storage.Get(ctx, storage.KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("read persisted cart")
		}
		return nil
	}

	stored, err := persist.Decode[[]Item](entry.Value, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("decode persisted cart")
		return nil
	}

	items := make([]Item, 0, len(stored))
	for _, it := range stored {
		if err := it.Validate(); err != nil {
			s.log.Warn().Err(err).Str("id", it.ID.String()).Msg("dropping invalid cart item")
			continue
		}
		if containsID(items, it.ID) {
			continue
		}
		items = append(items, it)
	}
	return items
}

// Add appends item unless an item with the same id is already present. Existing
// entries are never updated. Reports whether the item was added.
func (s *Store) Add(ctx context.Context, item Item) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if containsID(s.items, item.ID) {
		return false, nil
	}

	s.items = append(s.items, item)
	s.save(ctx)
	return true, nil
}

// Remove deletes the item with id. Reports whether an item was removed.
func (s *Store) Remove(ctx context.Context, id ident.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return false
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	s.save(ctx)
	return true
}

// Clear empties the cart and removes the persisted copy immediately.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := storage.Remove(ctx, s.storage, storage.KeyCart); err != nil {
		s.log.Warn().Err(err).Msg("remove persisted cart")
	}
}

// save persists the current items. Callers hold the lock. Failures are logged and
// the write is retried on the next mutation.
func (s *Store) save(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []Item{}
	}

	raw, err := persist.Encode(items)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode cart")
		return
	}

	if err := s.storage.Set(ctx, storage.KeyCart, raw); err != nil {
		s.log.Warn().Err(err).Int("items", len(items)).Msg("persist cart")
	}
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Subtotal is the sum of item prices; 0 for an empty cart.
func (s *Store) Subtotal() float64 {
	return s.Totals().Subtotal
}

// Tax is TaxRate applied to the subtotal.
func (s *Store) Tax() float64 {
	return s.Totals().Tax
}

// TotalWithTax is the subtotal plus tax.
func (s *Store) TotalWithTax() float64 {
	return s.Totals().Total
}

// Totals returns all derived amounts from a single snapshot of the items.
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeTotals(s.items)
}

// Count is the number of items in the cart.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Contains reports whether an item with id is in the cart.
func (s *Store) Contains(id ident.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.items, id)
}

func containsID(items []Item, id ident.ID) bool {
	return slices.ContainsFunc(items, func(it Item) bool { return it.ID == id })
}
