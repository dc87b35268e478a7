package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of the Gateway interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) List(ctx context.Context, f Filter) (*ListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ListResult), args.Error(1)
}

func (m *MockGateway) Get(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Keyboard", Description: "mechanical keys", Price: 80, Stock: 5, Category: "peripherals"},
		{ID: "p2", Name: "Mouse", Description: "wireless", Price: 30, Stock: 9, Category: "peripherals"},
		{ID: "p3", Name: "Monitor", Description: "27 inch panel", Price: 250, Stock: 2, Category: "displays"},
	}
}

func TestStore_FetchPageReplacesItems(t *testing.T) {
	gw := new(MockGateway)
	store := NewStore(gw)

	gw.On("List", mock.Anything, Filter{Page: 1, PageSize: 20}).
		Return(&ListResult{Products: sampleProducts(), Total: 45}, nil).Once()

	err := store.FetchPage(context.Background(), Filter{})

	assert.NoError(t, err)
	st := store.State()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, 45, st.Total)
	assert.Equal(t, 3, st.TotalPages) // ceil(45/20)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)

	// A second fetch fully replaces, never merges.
	gw.On("List", mock.Anything, mock.Anything).
		Return(&ListResult{Products: sampleProducts()[:1], Total: 1}, nil).Once()

	err = store.FetchPage(context.Background(), Filter{Page: 2})
	assert.NoError(t, err)
	assert.Len(t, store.State().Items, 1)

	gw.AssertExpectations(t)
}

func TestStore_FetchPageNormalizesFilter(t *testing.T) {
	gw := new(MockGateway)
	store := NewStore(gw)

	gw.On("List", mock.Anything, Filter{Category: "displays", Page: 1, PageSize: 100}).
		Return(&ListResult{}, nil).Once()

	err := store.FetchPage(context.Background(), Filter{Category: "displays", Page: -1, PageSize: 500})

	assert.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestStore_FetchFailureRetainsItems(t *testing.T) {
	gw := new(MockGateway)
	store := NewStore(gw)

	gw.On("List", mock.Anything, mock.Anything).
		Return(&ListResult{Products: sampleProducts(), Total: 3}, nil).Once()
	assert.NoError(t, store.FetchPage(context.Background(), Filter{}))

	gw.On("List", mock.Anything, mock.Anything).
		Return(nil, errors.New("network error")).Once()

	err := store.FetchPage(context.Background(), Filter{Page: 2})

	assert.Error(t, err)
	st := store.State()
	assert.Len(t, st.Items, 3) // previous page still available
	assert.Equal(t, "network error", st.Error)
	assert.False(t, st.Loading)
}

func TestStore_LoadingFlagAroundFetch(t *testing.T) {
	gw := new(MockGateway)
	store := NewStore(gw)

	var seen []bool
	unsubscribe := store.Subscribe(func(st State) {
		seen = append(seen, st.Loading)
	})
	defer unsubscribe()

	gw.On("List", mock.Anything, mock.Anything).
		Return(&ListResult{}, nil).Once()

	assert.NoError(t, store.FetchPage(context.Background(), Filter{}))

	assert.Equal(t, []bool{true, false}, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	gw := new(MockGateway)
	store := NewStore(gw)

	calls := 0
	unsubscribe := store.Subscribe(func(State) { calls++ })
	unsubscribe()

	gw.On("List", mock.Anything, mock.Anything).
		Return(&ListResult{}, nil).Once()
	assert.NoError(t, store.FetchPage(context.Background(), Filter{}))

	assert.Zero(t, calls)
}

func TestApplyLocal(t *testing.T) {
	items := sampleProducts()

	t.Run("Substring match on name and description", func(t *testing.T) {
		got := ApplyLocal(items, "mo", "")
		// "Mouse" and "Monitor" by name
		assert.Len(t, got, 2)

		got = ApplyLocal(items, "panel", "")
		assert.Len(t, got, 1)
		assert.Equal(t, "p3", got[0].ID)
	})

	t.Run("Sort keys", func(t *testing.T) {
		byName := ApplyLocal(items, "", SortName)
		assert.Equal(t, "Keyboard", byName[0].Name)

		asc := ApplyLocal(items, "", SortPriceAsc)
		assert.Equal(t, 30.0, asc[0].Price)

		desc := ApplyLocal(items, "", SortPriceDesc)
		assert.Equal(t, 250.0, desc[0].Price)
	})

	t.Run("Never touches the store page counters", func(t *testing.T) {
		gw := new(MockGateway)
		store := NewStore(gw)
		gw.On("List", mock.Anything, mock.Anything).
			Return(&ListResult{Products: items, Total: 60}, nil).Once()
		assert.NoError(t, store.FetchPage(context.Background(), Filter{}))

		before := store.State().TotalPages
		_ = ApplyLocal(store.State().Items, "keyboard", SortPriceAsc)
		assert.Equal(t, before, store.State().TotalPages)
		assert.Len(t, store.State().Items, 3)
	})
}
