package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dukerupert/pantry/internal/model"
)

var errBackend = errors.New("backend down")

// fakeBackend serves all three state objects. When hold is set, mutating
// calls wait on it so tests can look at the optimistic state.
type fakeBackend struct {
	mu        sync.Mutex
	inventory []model.InventoryItem
	shopping  []model.ShoppingListItem
	family    *model.Family
	days      map[string]model.MealPlanDay
	fail      error
	hold      chan struct{}
	entered   chan struct{}
	nextID    int
}

func (f *fakeBackend) wait() error {
	if f.hold != nil {
		f.entered <- struct{}{}
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail
}

func (f *fakeBackend) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]model.InventoryItem(nil), f.inventory...), nil
}

func (f *fakeBackend) AddInventoryItem(ctx context.Context, in model.InventoryInput) (*model.InventoryItem, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item := model.InventoryItem{
		ID:         fmt.Sprintf("inv-%d", f.nextID),
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		ExpiryDate: in.ExpiryDate,
		Product:    &model.Product{Name: in.ProductName},
	}
	f.inventory = append(f.inventory, item)
	return &item, nil
}

func (f *fakeBackend) UpdateInventoryItem(ctx context.Context, id string, in model.InventoryInput) (*model.InventoryItem, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.inventory {
		if f.inventory[i].ID == id {
			f.inventory[i].Quantity = in.Quantity
			f.inventory[i].Unit = in.Unit
			f.inventory[i].ExpiryDate = in.ExpiryDate
			item := f.inventory[i]
			return &item, nil
		}
	}
	return nil, errBackend
}

func (f *fakeBackend) DeleteInventoryItem(ctx context.Context, id string) error {
	return f.wait()
}

func (f *fakeBackend) ListShoppingItems(ctx context.Context) ([]model.ShoppingListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]model.ShoppingListItem(nil), f.shopping...), nil
}

func (f *fakeBackend) SetBought(ctx context.Context, id string, bought bool) (*model.ShoppingListItem, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.shopping {
		if f.shopping[i].ID == id {
			f.shopping[i].IsBought = bought
			item := f.shopping[i]
			return &item, nil
		}
	}
	return nil, errBackend
}

func (f *fakeBackend) GetFamily(ctx context.Context) (*model.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return f.family, nil
}

func (f *fakeBackend) GetMealPlan(ctx context.Context, date time.Time) (*model.MealPlanDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	key := date.Format(time.DateOnly)
	day, ok := f.days[key]
	if !ok {
		day = model.MealPlanDay{Date: key}
	}
	return &day, nil
}

func (f *fakeBackend) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

type published struct {
	entity, action, id string
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(entity, action, id string, extra map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, published{entity, action, id})
	r.mu.Unlock()
}

func (r *recorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}
