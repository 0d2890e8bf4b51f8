package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/events"
	"github.com/phrazzld/products-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func input(name, category string, inStock bool) domain.ProductInput {
	return domain.ProductInput{
		Name:        name,
		Description: name + " description",
		Price:       10,
		Category:    category,
		InStock:     inStock,
	}
}

func mustCreate(t *testing.T, s *ProductStore, in domain.ProductInput) domain.Product {
	t.Helper()
	p, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.ProductEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.ProductEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func TestProductStore_CreateAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p := mustCreate(t, s, input(fmt.Sprintf("item %d", i), "Misc", true))
		require.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "id %s issued twice", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, 50, s.Len())
}

func TestProductStore_DeletedIDsAreNeverReissued(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "a", "b"}
	next := 0
	gen := func() string {
		id := ids[next%len(ids)]
		next++
		return id
	}
	s := NewProductStore(testLogger(), WithIDGenerator(gen))

	first := mustCreate(t, s, input("first", "Misc", true))
	require.Equal(t, "a", first.ID)
	require.True(t, s.Delete(context.Background(), "a"))

	second := mustCreate(t, s, input("second", "Misc", true))
	assert.Equal(t, "b", second.ID, "deleted id must not be reused")
}

func TestProductStore_IDExhaustion(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger(), WithIDGenerator(func() string { return "same" }))
	mustCreate(t, s, input("first", "Misc", true))

	_, err := s.Create(context.Background(), input("second", "Misc", true))
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, store.ErrIDExhausted)
	assert.Equal(t, 1, s.Len())
}

func TestProductStore_CreateRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	_, err := s.Create(context.Background(), domain.ProductInput{Name: "", Description: "d", Category: "c"})
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Zero(t, s.Len())
}

func TestProductStore_ListFilters(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()
	mustCreate(t, s, input("Gaming Mouse", "Electronics", true))
	mustCreate(t, s, input("Yoga Mat", "Sports", true))
	mustCreate(t, s, domain.ProductInput{
		Name: "Speaker", Description: "Waterproof MOUSE-shaped speaker", Price: 1, Category: "ELECTRONICS",
	})
	mustCreate(t, s, input("Lamp", "electronics", false))

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{"no filter keeps insertion order", domain.ProductFilter{}, []string{"Gaming Mouse", "Yoga Mat", "Speaker", "Lamp"}},
		{"category is case-insensitive", domain.ProductFilter{Category: "eLeCtRoNiCs"}, []string{"Gaming Mouse", "Speaker", "Lamp"}},
		{"category is exact", domain.ProductFilter{Category: "Electro"}, []string{}},
		{"search matches name or description", domain.ProductFilter{Search: "mouse"}, []string{"Gaming Mouse", "Speaker"}},
		{"search is trimmed", domain.ProductFilter{Search: "  yoga  "}, []string{"Yoga Mat"}},
		{"filters are conjunctive", domain.ProductFilter{Category: "electronics", Search: "lamp"}, []string{"Lamp"}},
		{"blank filters are ignored", domain.ProductFilter{Category: " ", Search: " "}, []string{"Gaming Mouse", "Yoga Mat", "Speaker", "Lamp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := []string{}
			for _, p := range s.List(ctx, tt.filter) {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProductStore_ListReturnsSnapshot(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()
	created := mustCreate(t, s, input("Mouse", "Electronics", true))

	listed := s.List(ctx, domain.ProductFilter{})
	listed[0].Name = "Hacked"

	found, ok := s.FindByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Mouse", found.Name)
	assert.Equal(t, 1, s.Len())

	found.Price = 999
	again, _ := s.FindByID(ctx, created.ID)
	assert.Equal(t, float64(10), again.Price)
}

func TestProductStore_CategoryPaginationExample(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()
	mustCreate(t, s, input("A", "Electronics", true))
	mustCreate(t, s, input("B", "electronics", true))
	mustCreate(t, s, input("C", "Clothing", true))
	mustCreate(t, s, input("D", "ELECTRONICS", true))

	page := s.Paginate(s.List(ctx, domain.ProductFilter{Category: "electronics"}), 1, 1)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, "A", page.Data[0].Name)
}

func TestProductStore_Paginate(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	items := make([]domain.Product, 25)
	for i := range items {
		items[i] = domain.Product{ID: fmt.Sprintf("p%d", i)}
	}

	tests := []struct {
		name                        string
		items                       []domain.Product
		page, limit                 int
		wantPage, wantLimit, wantTP int
		wantLen                     int
		wantFirst                   string
	}{
		{"defaults", items, 0, 0, 1, 10, 3, 10, "p0"},
		{"last partial page", items, 3, 10, 3, 10, 3, 5, "p20"},
		{"negative values floor to one", items, -2, -5, 1, 1, 25, 1, "p0"},
		{"out of range page is empty", items, 4, 10, 4, 10, 3, 0, ""},
		{"huge page does not overflow", items, 1 << 40, 1 << 40, 1 << 40, 1 << 40, 1, 0, ""},
		{"empty input has one page", nil, 1, 10, 1, 10, 1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := s.Paginate(tt.items, tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page.Meta.Page)
			assert.Equal(t, tt.wantLimit, page.Meta.Limit)
			assert.Equal(t, tt.wantTP, page.Meta.TotalPages)
			assert.Equal(t, len(tt.items), page.Meta.Total)
			require.Len(t, page.Data, tt.wantLen)
			assert.NotNil(t, page.Data)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, page.Data[0].ID)
			}
		})
	}
}

func TestProductStore_PaginateRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		mustCreate(t, s, input(fmt.Sprintf("item %02d", i), "Misc", i%2 == 0))
	}
	all := s.List(ctx, domain.ProductFilter{})

	for limit := 1; limit <= 25; limit++ {
		var joined []domain.Product
		first := s.Paginate(all, 1, limit)
		for page := 1; page <= first.Meta.TotalPages; page++ {
			joined = append(joined, s.Paginate(all, page, limit).Data...)
		}
		assert.Equal(t, all, joined, "limit %d", limit)
	}
}

func TestProductStore_Update(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{}
	s := NewProductStore(testLogger(), WithEmitter(emitter))
	ctx := context.Background()
	created := mustCreate(t, s, input("Mouse", "Electronics", true))

	name := "Trackball"
	updated, found, err := s.Update(ctx, created.ID, domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Trackball", updated.Name)
	assert.Equal(t, created.Description, updated.Description)

	stored, _ := s.FindByID(ctx, created.ID)
	assert.Equal(t, updated, stored)

	_, found, err = s.Update(ctx, "missing", domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)

	require.Len(t, emitter.events, 2)
	assert.Equal(t, events.ProductSaved, emitter.events[1].Type)
	assert.Equal(t, "Trackball", emitter.events[1].Product.Name)
}

func TestProductStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{}
	s := NewProductStore(testLogger(), WithEmitter(emitter))
	ctx := context.Background()
	p := mustCreate(t, s, input("Mouse", "Electronics", true))

	assert.True(t, s.Delete(ctx, p.ID))
	assert.False(t, s.Delete(ctx, p.ID))
	_, ok := s.FindByID(ctx, p.ID)
	assert.False(t, ok)

	require.Len(t, emitter.events, 2)
	assert.Equal(t, events.ProductDeleted, emitter.events[1].Type)
	assert.Equal(t, p.ID, emitter.events[1].ProductID)
}

func TestProductStore_EmitterFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{err: errors.New("queue full")}
	s := NewProductStore(testLogger(), WithEmitter(emitter))

	p, err := s.Create(context.Background(), input("Mouse", "Electronics", true))
	require.NoError(t, err)
	_, ok := s.FindByID(context.Background(), p.ID)
	assert.True(t, ok)
}

func TestProductStore_Stats(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()
	mustCreate(t, s, input("A", "Electronics", true))
	mustCreate(t, s, input("B", "electronics", false))
	mustCreate(t, s, input("C", "Electronics", true))

	// Records that bypass validation land in the fallback bucket.
	s.mu.Lock()
	s.products = append(s.products, domain.Product{ID: "legacy", Name: "Legacy"})
	s.mu.Unlock()

	stats := s.Stats(ctx)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.InStock)
	assert.Equal(t, map[string]int{
		"Electronics":              2,
		"electronics":              1,
		domain.UncategorizedBucket: 1,
	}, stats.ByCategory)

	assert.Equal(t, map[string]int{}, NewProductStore(testLogger()).Stats(ctx).ByCategory)
}

func TestProductStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewProductStore(testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Create(ctx, input(fmt.Sprintf("item %d", i), "Misc", true))
			if !assert.NoError(t, err) {
				return
			}
			_ = s.List(ctx, domain.ProductFilter{Search: "item"})
			_ = s.Stats(ctx)
			if i%2 == 0 {
				s.Delete(ctx, p.ID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 10, s.Stats(ctx).Total)
}
