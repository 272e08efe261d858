package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/pantry/internal/freshness"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/quantity"
)

type InventoryBackend interface {
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	AddInventoryItem(ctx context.Context, in model.InventoryInput) (*model.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id string, in model.InventoryInput) (*model.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error
}

type Inventory struct {
	backend InventoryBackend
	notify  Notifier

	mu        sync.RWMutex
	items     []model.InventoryItem
	loaded    bool
	fetchedAt time.Time
}

func NewInventory(backend InventoryBackend, notify Notifier) *Inventory {
	return &Inventory{backend: backend, notify: orNop(notify)}
}

// Refresh replaces the local copy with the backend's.
func (s *Inventory) Refresh(ctx context.Context) error {
	items, err := s.backend.ListInventory(ctx)
	if err != nil {
		return fmt.Errorf("refresh inventory: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current items.
func (s *Inventory) Items() ([]model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return slices.Clone(s.items), nil
}

// InventoryRow is an item as a screen shows it.
type InventoryRow struct {
	freshness.ItemFreshness
	Display string `json:"display"`
}

type InventoryView struct {
	Meta
	Items  []InventoryRow            `json:"items"`
	Counts map[freshness.Status]int `json:"counts"`
}

// View classifies every item at now, soonest expiry first.
func (s *Inventory) View(now time.Time) (InventoryView, error) {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return InventoryView{}, ErrNotLoaded
	}
	items := slices.Clone(s.items)
	fetchedAt := s.fetchedAt
	s.mu.RUnlock()

	sum := freshness.Summarize(items, now)
	v := InventoryView{
		Meta:   Meta{FetchedAt: fetchedAt},
		Items:  make([]InventoryRow, len(sum.Items)),
		Counts: sum.Counts,
	}
	for i, it := range sum.Items {
		display, err := quantity.Format(it.Quantity, it.Unit)
		if err != nil {
			display = fmt.Sprintf("%v %s", it.Quantity, it.Unit)
		}
		v.Items[i] = InventoryRow{ItemFreshness: it, Display: display}
	}
	return v, nil
}

func validateInput(in model.InventoryInput) error {
	if in.Quantity < 0 {
		return quantity.ErrNegativeQuantity
	}
	_, err := quantity.Format(in.Quantity, in.Unit)
	return err
}

// Add shows a placeholder item right away and swaps in the backend's copy
// once it answers. The placeholder is removed if the backend refuses.
func (s *Inventory) Add(ctx context.Context, in model.InventoryInput) (*model.InventoryItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	tempID := "tmp-" + uuid.NewString()
	placeholder := model.InventoryItem{
		ID:         tempID,
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		ExpiryDate: in.ExpiryDate,
	}
	if in.ProductName != "" {
		placeholder.Product = &model.Product{Name: in.ProductName}
	}
	s.mu.Lock()
	s.items = append(s.items, placeholder)
	s.mu.Unlock()

	created, err := s.backend.AddInventoryItem(ctx, in)

	s.mu.Lock()
	i := s.indexOf(tempID)
	switch {
	case i < 0:
		// A refresh replaced the list while we waited.
	case err != nil:
		s.items = slices.Delete(s.items, i, i+1)
	default:
		s.items[i] = *created
	}
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("add inventory item: %w", err)
	}
	s.notify.Publish(EntityInventoryItem, "created", created.ID, nil)
	return created, nil
}

// Update changes quantity or expiry, reverting the local copy on failure.
func (s *Inventory) Update(ctx context.Context, id string, in model.InventoryInput) (*model.InventoryItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var previous *model.InventoryItem
	if i := s.indexOf(id); i >= 0 {
		old := s.items[i]
		previous = &old
		s.items[i].Quantity = in.Quantity
		s.items[i].Unit = in.Unit
		s.items[i].ExpiryDate = in.ExpiryDate
	}
	s.mu.Unlock()

	updated, err := s.backend.UpdateInventoryItem(ctx, id, in)

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		if err != nil {
			if previous != nil {
				s.items[i] = *previous
			}
		} else {
			s.items[i] = *updated
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	s.notify.Publish(EntityInventoryItem, "updated", id, nil)
	return updated, nil
}

// Remove deletes an item, putting it back in place if the backend refuses.
func (s *Inventory) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	pos := s.indexOf(id)
	var removed model.InventoryItem
	if pos >= 0 {
		removed = s.items[pos]
		s.items = slices.Delete(s.items, pos, pos+1)
	}
	s.mu.Unlock()

	if err := s.backend.DeleteInventoryItem(ctx, id); err != nil {
		if pos >= 0 {
			s.mu.Lock()
			if s.indexOf(id) < 0 {
				s.items = slices.Insert(s.items, min(pos, len(s.items)), removed)
			}
			s.mu.Unlock()
		}
		return fmt.Errorf("remove inventory item: %w", err)
	}
	s.notify.Publish(EntityInventoryItem, "deleted", id, nil)
	return nil
}

// indexOf must be called with mu held.
func (s *Inventory) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.InventoryItem) bool { return it.ID == id })
}
