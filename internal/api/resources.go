package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/freshness"
	"github.com/dukerupert/pantry/internal/model"
)

// inventoryRecord is an inventory item as the backend sends it. Expiry
// dates arrive as RFC 3339 timestamps or plain dates, under either name.
type inventoryRecord struct {
	ID             string         `json:"id"`
	Quantity       float64        `json:"quantity"`
	Unit           model.Unit     `json:"unit"`
	ExpiryDate     string         `json:"expiryDate"`
	ExpirationDate string         `json:"expirationDate"`
	Product        *model.Product `json:"product"`
}

func (r inventoryRecord) item() (model.InventoryItem, error) {
	item := model.InventoryItem{ID: r.ID, Quantity: r.Quantity, Unit: r.Unit, Product: r.Product}
	raw := strings.TrimSpace(r.ExpiryDate)
	if raw == "" {
		raw = strings.TrimSpace(r.ExpirationDate)
	}
	if raw == "" {
		return item, nil
	}
	t, err := freshness.ParseDate(raw)
	if err != nil {
		return item, &freshness.InvalidDateError{Field: "expiry", Value: raw, Err: err}
	}
	item.ExpiryDate = &t
	return item, nil
}

func (c *Client) inventoryItem(ctx context.Context, method, path string, in any) (*model.InventoryItem, error) {
	var rec inventoryRecord
	if err := c.do(ctx, method, path, in, &rec); err != nil {
		return nil, err
	}
	item, err := rec.item()
	if err != nil {
		return nil, &DecodeError{Method: method, Path: path, Err: err}
	}
	return &item, nil
}

func (c *Client) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var records []inventoryRecord
	if err := c.do(ctx, http.MethodGet, "/inventory", nil, &records); err != nil {
		return nil, err
	}
	items := make([]model.InventoryItem, len(records))
	for i, rec := range records {
		item, err := rec.item()
		if err != nil {
			return nil, &DecodeError{Method: http.MethodGet, Path: "/inventory", Err: fmt.Errorf("item %q: %w", rec.ID, err)}
		}
		items[i] = item
	}
	return items, nil
}

func (c *Client) AddInventoryItem(ctx context.Context, in model.InventoryInput) (*model.InventoryItem, error) {
	return c.inventoryItem(ctx, http.MethodPost, "/inventory", in)
}

func (c *Client) UpdateInventoryItem(ctx context.Context, id string, in model.InventoryInput) (*model.InventoryItem, error) {
	return c.inventoryItem(ctx, http.MethodPatch, "/inventory/"+url.PathEscape(id), in)
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/inventory/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListShoppingItems(ctx context.Context) ([]model.ShoppingListItem, error) {
	var items []model.ShoppingListItem
	if err := c.do(ctx, http.MethodGet, "/shopping-list", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetBought marks a shopping list item bought or not bought.
func (c *Client) SetBought(ctx context.Context, id string, bought bool) (*model.ShoppingListItem, error) {
	body := struct {
		IsBought bool `json:"isBought"`
	}{bought}

	var item model.ShoppingListItem
	if err := c.do(ctx, http.MethodPatch, "/shopping-list/"+url.PathEscape(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) GetFamily(ctx context.Context) (*model.Family, error) {
	var f model.Family
	if err := c.do(ctx, http.MethodGet, "/families/me", nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetMealPlan returns the meals planned for the calendar day of date.
func (c *Client) GetMealPlan(ctx context.Context, date time.Time) (*model.MealPlanDay, error) {
	q := url.Values{"date": {date.Format(time.DateOnly)}}

	var day model.MealPlanDay
	if err := c.do(ctx, http.MethodGet, "/meal-plans?"+q.Encode(), nil, &day); err != nil {
		return nil, err
	}
	if day.Date == "" {
		day.Date = date.Format(time.DateOnly)
	}
	return &day, nil
}
