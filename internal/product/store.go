package product

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

// State is a mirror of the last fetch. Each fetch fully replaces Items; pages
// are never merged.
type State struct {
	Items      []Product
	Total      int
	TotalPages int
	Loading    bool
	Error      string
}

// Store holds the current page of products plus loading/error flags.
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

// State returns a copy safe for the caller to keep.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
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

// FetchPage replaces the item collection with the requested page. On failure
// the previous items are retained and Error is set.
func (s *Store) FetchPage(ctx context.Context, f Filter) error {
	return s.fetch(ctx, f, nil)
}

// fetch runs a page query, applying the result only when accept (checked at
// resolution time, under the lock) still agrees. A nil accept always applies.
func (s *Store) fetch(ctx context.Context, f Filter, accept func() bool) error {
	f = normalize(f)

	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.notify()
	s.mu.Unlock()

	res, err := s.gw.List(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if accept != nil && !accept() {
		logger.FromCtx(ctx).Debug("discarding superseded product fetch",
			zap.String("search", f.Search),
		)
		s.notify()
		return nil
	}

	if err != nil {
		s.state.Error = err.Error()
		s.notify()
		return err
	}

	s.state.Items = res.Products
	s.state.Total = res.Total
	s.state.TotalPages = (res.Total + f.PageSize - 1) / f.PageSize
	s.state.Error = ""
	s.notify()
	return nil
}

func (s *Store) snapshot() State {
	st := s.state
	st.Items = append([]Product(nil), s.state.Items...)
	return st
}

// notify must be called with the lock held.
func (s *Store) notify() {
	st := s.snapshot()
	for _, fn := range s.subs {
		fn(st)
	}
}

func normalize(f Filter) Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	} else if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}

// ApplyLocal filters and sorts the already-fetched page for instant feedback
// while a debounced server search is in flight. It is a pure overlay: the
// store, and in particular TotalPages, is untouched.
func ApplyLocal(items []Product, search string, key Sort) []Product {
	out := make([]Product, 0, len(items))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, p := range items {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}

	switch key {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}
