// Package list keeps a client-side replica of the server's transaction
// collection consistent with the current filter, sort and page state.
//
// The replica is a read-only cache: every successful mutation, filter apply
// or sort change replaces it wholesale. It is never patched in place.
package list

import (
	"context"
	"fmt"
	"sync"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/famledger-dev/famledger/internal/page"
	"github.com/famledger-dev/famledger/internal/query"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 25

// Store is the external transaction store. *api.Client satisfies it.
type Store interface {
	ListTransactions(ctx context.Context, rawQuery string) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, t model.Transaction) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Synchronizer owns the filter/sort/page state and the cached collection.
//
// Responses are applied in request-issuance order: every load is tagged with
// a sequence number at issuance, and a response only lands if no newer load
// has been issued since. Superseded requests are not aborted - their
// responses are simply inert. That is a chosen tradeoff, not an oversight.
type Synchronizer struct {
	mu       sync.Mutex
	store    Store
	filters  query.FilterState
	sort     query.SortState
	cache    []model.Transaction
	page     int
	pageSize int
	seq      uint64
}

// New creates a synchronizer with an empty cache.
func New(store Store, pageSize int) *Synchronizer {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Synchronizer{
		store:    store,
		filters:  query.NewFilterState(),
		page:     1,
		pageSize: pageSize,
	}
}

// keepPage tells load to leave the current page number alone.
const keepPage = 0

// Load fetches the full filtered/sorted collection and replaces the cache.
// Idempotent for unchanged state. A failed load leaves the previous cache,
// pagination, filters and sort untouched.
func (s *Synchronizer) Load(ctx context.Context) error {
	return s.load(ctx, keepPage)
}

func (s *Synchronizer) load(ctx context.Context, targetPage int) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	rawQuery := query.Encode(query.Build(s.filters, s.sort))
	s.mu.Unlock()

	// Fetch outside the lock; user input stays responsive.
	transactions, err := s.store.ListTransactions(ctx, rawQuery)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		// A newer load was issued while this one was in flight; its
		// response owns the cache now. Stale responses never clobber it.
		return nil
	}
	if err != nil {
		return common.NewUserError("failed to load transactions", err)
	}

	s.cache = transactions
	if targetPage != keepPage {
		s.page = targetPage
	}
	// Keep the page valid after the collection shrinks.
	s.page = page.Slice(s.cache, s.page, s.pageSize).Page
	return nil
}

// SetFilter stages a filter value in memory. No fetch happens until
// ApplyFilters: filters are staged, not live, to avoid a request per
// keystroke. Unknown keys are rejected loudly.
func (s *Synchronizer) SetFilter(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Set(key, value)
}

// ApplyFilters validates the staged filters, resets to page 1 and reloads.
func (s *Synchronizer) ApplyFilters(ctx context.Context) error {
	s.mu.Lock()
	err := validateFilters(s.filters)
	s.mu.Unlock()
	if err != nil {
		return common.NewUserError("invalid filter", err)
	}
	return s.load(ctx, 1)
}

// ClearFilters resets all filters, keeps the current sort, resets to page 1
// and reloads. Calling it twice in a row is the same as once.
func (s *Synchronizer) ClearFilters(ctx context.Context) error {
	s.mu.Lock()
	s.filters = query.NewFilterState()
	s.mu.Unlock()
	return s.load(ctx, 1)
}

// SortBy toggles the sort state for field, resets to page 1 and reloads.
// Sort is live, unlike filters: a column click is a single unambiguous
// action, so it fetches immediately.
func (s *Synchronizer) SortBy(ctx context.Context, field string) error {
	s.mu.Lock()
	s.sort = s.sort.Toggle(field)
	s.mu.Unlock()
	return s.load(ctx, 1)
}

// SetSort stages the sort state without fetching. Interactive views toggle
// with SortBy; one-shot commands stage sort and filters together and load
// once.
func (s *Synchronizer) SetSort(field string, direction query.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = query.SortState{Field: field, Direction: direction}
}

// GoToPage re-slices the cached collection; it never refetches. Out-of-range
// page numbers are a no-op. The resulting view is returned either way.
func (s *Synchronizer) GoToPage(n int) page.Page[model.Transaction] {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := page.Slice(s.cache, s.page, s.pageSize)
	if n < 1 || n > current.Pages {
		return current
	}
	s.page = n
	return page.Slice(s.cache, s.page, s.pageSize)
}

// Page returns the currently visible window over the cache.
func (s *Synchronizer) Page() page.Page[model.Transaction] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page.Slice(s.cache, s.page, s.pageSize)
}

// Filters returns a copy of the staged filter state.
func (s *Synchronizer) Filters() query.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// Sort returns the current sort state.
func (s *Synchronizer) Sort() query.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Create stores a new transaction, then reloads the cache wholesale.
func (s *Synchronizer) Create(ctx context.Context, t model.Transaction) error {
	if _, err := s.store.CreateTransaction(ctx, t); err != nil {
		return common.NewUserError("failed to create transaction", err)
	}
	return s.Load(ctx)
}

// Update replaces a stored transaction, then reloads the cache wholesale.
func (s *Synchronizer) Update(ctx context.Context, id int64, t model.Transaction) error {
	if _, err := s.store.UpdateTransaction(ctx, id, t); err != nil {
		return common.NewUserError("failed to update transaction", err)
	}
	return s.Load(ctx)
}

// Delete removes a stored transaction, then reloads the cache wholesale.
func (s *Synchronizer) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return common.NewUserError("failed to delete transaction", err)
	}
	return s.Load(ctx)
}

// validateFilters checks that set values parse in their domain before they
// are sent to the server.
func validateFilters(f query.FilterState) error {
	for _, key := range []string{query.KeyDateFrom, query.KeyDateTo} {
		if v := f[key]; v != "" {
			if _, err := model.ParseDate(v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	for _, key := range []string{query.KeyAmountMin, query.KeyAmountMax} {
		if v := f[key]; v != "" {
			if _, err := decimal.NewFromString(v); err != nil {
				return fmt.Errorf("%s: invalid amount %q", key, v)
			}
		}
	}
	if v := f[query.KeyType]; v != "" {
		if _, err := model.ParseTransactionType(v); err != nil {
			return err
		}
	}
	return nil
}
