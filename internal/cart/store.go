package cart

import (
	"context"
	"sync"

	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/product"

	"go.uber.org/zap"
)

// State is the cart slice: server-confirmed line items plus loading/error
// flags. Items reflect only acknowledged mutations, never in-flight ones.
type State struct {
	Items   []Item
	Loading bool
	Error   string
}

// Store reconciles local cart state with server-confirmed results. Mutations
// are optimistic-free: the reducer runs only after the server acknowledges.
type Store struct {
	gw Gateway

	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	nexts int
}

func NewStore(gw Gateway) *Store {
	return &Store{gw: gw, subs: make(map[int]func(State))}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ItemCount is the sum of quantities, recomputed on every read.
func (s *Store) ItemCount() int {
	return s.Totals().ItemCount
}

// Totals recomputes subtotal, tax and total from the current items.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.state.Items)
}

// Subscribe registers fn for every state change and returns an unsubscribe
// function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nexts
	s.nexts++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Fetch replaces the entire item collection with the server's current cart.
// On failure the previous contents are retained and Error is set
// (stale-but-available).
func (s *Store) Fetch(ctx context.Context) error {
	return s.withLoading(func() error {
		items, err := s.gw.Fetch(ctx)
		if err != nil {
			return err
		}
		s.apply(func(st *State) { st.Items = items })
		return nil
	})
}

// Add sends the item to the server and, only on acknowledgement, merges it
// into the local collection the same way the server does: an existing line
// for the product gains quantity, otherwise a new line is appended.
func (s *Store) Add(ctx context.Context, p product.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	return s.withLoading(func() error {
		if err := s.gw.Add(ctx, p.ID, quantity); err != nil {
			return err
		}
		s.apply(func(st *State) { st.Items = mergeItem(st.Items, p, quantity) })
		return nil
	})
}

// UpdateQuantity sets the line quantity. Values below 1 are rejected before
// any network call.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if productID == "" {
		return ErrEmptyProductID
	}

	return s.withLoading(func() error {
		if err := s.gw.UpdateQuantity(ctx, productID, quantity); err != nil {
			return err
		}
		s.apply(func(st *State) { st.Items = setQuantity(st.Items, productID, quantity) })
		return nil
	})
}

// Remove drops the line. A server NotFound is treated as success: the item is
// gone either way, so removing an absent item is not a hard error.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrEmptyProductID
	}

	return s.withLoading(func() error {
		err := s.gw.Remove(ctx, productID)
		if err != nil && !api.IsNotFound(err) {
			return err
		}
		if api.IsNotFound(err) {
			logger.L().Debug("remove of absent cart item", zap.String("product_id", productID))
		}
		s.apply(func(st *State) { st.Items = dropItem(st.Items, productID) })
		return nil
	})
}

// Clear empties the cart on the server and locally.
func (s *Store) Clear(ctx context.Context) error {
	return s.withLoading(func() error {
		if err := s.gw.Clear(ctx); err != nil {
			return err
		}
		s.apply(func(st *State) { st.Items = nil })
		return nil
	})
}

// ClearLocal empties the local collection without a network call. Invoked by
// the logout orchestration.
func (s *Store) ClearLocal() {
	s.apply(func(st *State) {
		st.Items = nil
		st.Error = ""
	})
}

// withLoading brackets a networked mutation: Loading is set before the call
// starts and cleared on both the success and failure paths.
func (s *Store) withLoading(fn func() error) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.notify()
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = err.Error()
	}
	s.notify()
	s.mu.Unlock()
	return err
}

func (s *Store) apply(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.notify()
}

func (s *Store) snapshot() State {
	st := s.state
	st.Items = append([]Item(nil), s.state.Items...)
	return st
}

// notify must be called with the lock held.
func (s *Store) notify() {
	st := s.snapshot()
	for _, fn := range s.subs {
		fn(st)
	}
}

// mergeItem mirrors the server-side merge: one line per product id.
func mergeItem(items []Item, p product.Product, quantity int) []Item {
	out := append([]Item(nil), items...)
	for i := range out {
		if out[i].Product.ID == p.ID {
			out[i].Quantity += quantity
			return out
		}
	}
	return append(out, Item{Product: p, Quantity: quantity})
}

func setQuantity(items []Item, productID string, quantity int) []Item {
	out := append([]Item(nil), items...)
	for i := range out {
		if out[i].Product.ID == productID {
			out[i].Quantity = quantity
		}
	}
	return out
}

func dropItem(items []Item, productID string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Product.ID != productID {
			out = append(out, it)
		}
	}
	return out
}
