package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/shopping"
)

type ShoppingBackend interface {
	ListShoppingItems(ctx context.Context) ([]model.ShoppingListItem, error)
	SetBought(ctx context.Context, id string, bought bool) (*model.ShoppingListItem, error)
	GetFamily(ctx context.Context) (*model.Family, error)
}

type Shopping struct {
	backend ShoppingBackend
	notify  Notifier

	mu        sync.RWMutex
	items     []model.ShoppingListItem
	family    *model.Family
	loaded    bool
	fetchedAt time.Time
}

func NewShopping(backend ShoppingBackend, notify Notifier) *Shopping {
	return &Shopping{backend: backend, notify: orNop(notify)}
}

// Refresh fetches the list and the family budget together.
func (s *Shopping) Refresh(ctx context.Context) error {
	var (
		items  []model.ShoppingListItem
		family *model.Family
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.backend.ListShoppingItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		family, err = s.backend.GetFamily(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh shopping list: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.family = family
	s.loaded = true
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// ToggleBought flips an item's bought flag immediately and undoes the flip
// if the backend rejects it.
func (s *Shopping) ToggleBought(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, ErrItemNotFound
	}
	want := !s.items[i].IsBought
	s.items[i].IsBought = want
	s.mu.Unlock()

	updated, err := s.backend.SetBought(ctx, id, want)

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		if err != nil {
			s.items[i].IsBought = !want
		} else {
			s.items[i] = *updated
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("toggle shopping item: %w", err)
	}
	s.notify.Publish(EntityShoppingItem, "updated", id, map[string]any{"isBought": updated.IsBought})
	return updated, nil
}

type ShoppingRow struct {
	model.ShoppingListItem
	Name  string `json:"name"`
	Price string `json:"price"`
}

type ShoppingView struct {
	Meta
	Items    []ShoppingRow          `json:"items"`
	Stats    shopping.Stats         `json:"stats"`
	Progress int                    `json:"progress"`
	Budget   *shopping.BudgetStatus `json:"budget,omitempty"`
}

// View aggregates the current list. Budget is nil until the family is known.
func (s *Shopping) View() (ShoppingView, error) {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return ShoppingView{}, ErrNotLoaded
	}
	items := slices.Clone(s.items)
	family := s.family
	fetchedAt := s.fetchedAt
	s.mu.RUnlock()

	stats, err := shopping.Aggregate(shopping.LinesFrom(items))
	if err != nil {
		return ShoppingView{}, err
	}

	currency := ""
	if family != nil {
		currency = family.Currency
	}
	v := ShoppingView{
		Meta:     Meta{FetchedAt: fetchedAt},
		Items:    make([]ShoppingRow, len(items)),
		Stats:    stats,
		Progress: stats.Progress(),
	}
	for i, it := range items {
		v.Items[i] = ShoppingRow{
			ShoppingListItem: it,
			Name:             it.DisplayName(),
			Price:            shopping.FormatPrice(it.EstimatedPrice, currency),
		}
	}
	if family != nil {
		b, err := shopping.CompareBudget(stats, *family)
		if err != nil {
			return ShoppingView{}, err
		}
		v.Budget = &b
	}
	return v, nil
}

// indexOf must be called with mu held.
func (s *Shopping) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.ShoppingListItem) bool { return it.ID == id })
}
