// Package state holds the companion's working copies of backend data.
//
// Each state object is built once in main and handed to the HTTP handlers
// and the reminder scheduler; nothing here is global. The backend stays
// authoritative: every object can be thrown away and rebuilt by Refresh.
// Mutations are applied locally first and rolled back if the backend
// rejects them, so screens see the change immediately.
package state

import (
	"errors"
	"time"
)

var (
	ErrNotLoaded    = errors.New("not loaded yet")
	ErrItemNotFound = errors.New("item not found")
)

// Entity names used in change notifications.
const (
	EntityInventoryItem = "inventory_item"
	EntityShoppingItem  = "shopping_item"
	EntityMealPlan      = "meal_plan"
)

// Notifier is told about every successful mutation. *websocket.Hub implements it.
type Notifier interface {
	Publish(entity, action, id string, extra map[string]any)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, string, map[string]any) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Snapshot metadata shared by the views.
type Meta struct {
	FetchedAt time.Time `json:"fetchedAt"`
}
