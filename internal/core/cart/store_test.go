package cart

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/core/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	s := New(mem, zerolog.New(io.Discard))
	s.Restore(context.Background())
	return s, mem
}

func item(id string, price float64) Item {
	return Item{ID: ident.ID(id), Title: "Course " + id, Price: price, Instructor: "Ada"}
}

func TestStore_ScenarioTotals(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, item("c1", 100))
	require.NoError(t, err)
	_, err = s.Add(ctx, item("c2", 50))
	require.NoError(t, err)

	assert.Equal(t, 150.0, s.Subtotal())
	assert.Equal(t, 22.5, s.Tax())
	assert.Equal(t, 172.5, s.TotalWithTax())
	assert.Equal(t, 2, s.Count())
}

func TestStore_AddIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, item("c1", 100))
	require.NoError(t, err)
	assert.True(t, added)

	changed := item("c1", 10)
	changed.Title = "Renamed"
	added, err = s.Add(ctx, changed)
	require.NoError(t, err)
	assert.False(t, added)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 100.0, items[0].Price, "existing entry must not be refreshed")
	assert.Equal(t, "Course c1", items[0].Title)
}

func TestStore_AddPreservesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c3", "c1", "c2", "c1"} {
		_, err := s.Add(ctx, item(id, 1))
		require.NoError(t, err)
	}

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ID.String())
	}
	assert.Equal(t, []string{"c3", "c1", "c2"}, ids)
}

func TestStore_AddRejectsInvalidItems(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, item("", 10))
	assert.Error(t, err)

	_, err = s.Add(ctx, item("c1", -1))
	assert.Error(t, err)

	assert.Zero(t, s.Count())
}

func TestStore_Remove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Add(ctx, item("c1", 100))
	_, _ = s.Add(ctx, item("c2", 50))

	assert.True(t, s.Remove(ctx, "c1"))
	assert.False(t, s.Remove(ctx, "c1"))
	assert.False(t, s.Remove(ctx, "missing"))

	assert.False(t, s.Contains("c1"))
	assert.True(t, s.Contains("c2"))
	assert.Equal(t, 50.0, s.Subtotal())
}

func TestStore_EmptyCart(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Zero(t, s.Subtotal())
	assert.Zero(t, s.Tax())
	assert.Zero(t, s.TotalWithTax())
	assert.Zero(t, s.Count())
	assert.Empty(t, s.Items())
}

func TestStore_ClearRemovesPersistedCopy(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Add(ctx, item("c1", 100))
	_, err := mem.Get(ctx, storage.KeyCart)
	require.NoError(t, err)

	s.Clear(ctx)

	assert.Empty(t, s.Items())
	_, err = mem.Get(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Clearing an already empty cart is fine.
	s.Clear(ctx)
}

func TestStore_SubtotalMatchesRandomOperations(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))

	model := map[string]float64{}
	for i := 0; i < 500; i++ {
		id := string(rune('a' + rng.IntN(12)))
		if rng.IntN(3) == 0 {
			s.Remove(ctx, ident.ID(id))
			delete(model, id)
			continue
		}

		price := float64(rng.IntN(20000)) / 100
		added, err := s.Add(ctx, item(id, price))
		require.NoError(t, err)
		if _, exists := model[id]; !exists {
			assert.True(t, added)
			model[id] = price
		}

		var want float64
		for _, it := range s.Items() {
			want += it.Price
		}
		assert.Equal(t, want, s.Subtotal())
		assert.Equal(t, len(model), s.Count())
		assert.InDelta(t, s.Subtotal()*(1+TaxRate), s.TotalWithTax(), 1e-9)
	}
}

func TestStore_PersistsAndRestores(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Add(ctx, item("c1", 100))
	_, _ = s.Add(ctx, item("c2", 50))
	s.Remove(ctx, "c1")

	restored := New(mem, zerolog.New(io.Discard))
	restored.Restore(ctx)

	assert.Equal(t, s.Items(), restored.Items())
}

func TestStore_RestoreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantIDs []string
	}{
		{name: "garbage", raw: "{oops"},
		{name: "wrong type", raw: `{"v":1,"data":{"id":"c1"}}`},
		{name: "legacy array", raw: `[{"id":"c1","title":"A","price":10,"instructor":"X"}]`, wantIDs: []string{"c1"}},
		{
			name:    "drops invalid and duplicate items",
			raw:     `{"v":1,"data":[{"id":"c1","price":1},{"id":"","price":2},{"id":"c2","price":-5},{"id":"c1","price":9},{"id":7,"price":3}]}`,
			wantIDs: []string{"c1", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemoryStore()
			ctx := context.Background()
			require.NoError(t, mem.Set(ctx, storage.KeyCart, tt.raw))

			s := New(mem, zerolog.New(io.Discard))
			s.Restore(ctx)

			var ids []string
			for _, it := range s.Items() {
				ids = append(ids, it.ID.String())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStore_StorageFailureIsNotFatal(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	mem.FailSet = errors.New("disk full")
	added, err := s.Add(ctx, item("c1", 100))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, s.Count())

	// The next mutation retries persistence with the full list.
	mem.FailSet = nil
	_, err = s.Add(ctx, item("c2", 50))
	require.NoError(t, err)

	restored := New(mem, zerolog.New(io.Discard))
	restored.Restore(ctx)
	assert.Equal(t, 2, restored.Count())
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	_, _ = s.Add(context.Background(), item("c1", 100))

	items := s.Items()
	items[0].Price = 0

	assert.Equal(t, 100.0, s.Subtotal())
}
