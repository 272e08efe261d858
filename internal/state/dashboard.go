package state

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/pantry/internal/freshness"
)

// Dashboard combines the three states into the home screen.
type Dashboard struct {
	Inventory *Inventory
	Shopping  *Shopping
	MealPlan  *MealPlan
	Now       func() time.Time
}

type DashboardView struct {
	Date      string                   `json:"date"`
	Counts    map[freshness.Status]int `json:"freshnessCounts"`
	Attention []InventoryRow           `json:"attention"`
	Shopping  ShoppingView             `json:"shopping"`
	Meals     MealPlanView             `json:"meals"`
}

func (d *Dashboard) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Load refreshes everything concurrently and builds the combined view.
// The first failing refresh cancels the others.
func (d *Dashboard) Load(ctx context.Context, date time.Time, target float64) (*DashboardView, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.Inventory.Refresh(gctx) })
	g.Go(func() error { return d.Shopping.Refresh(gctx) })
	g.Go(func() error { return d.MealPlan.Refresh(gctx, date) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inv, err := d.Inventory.View(d.now())
	if err != nil {
		return nil, err
	}
	shop, err := d.Shopping.View()
	if err != nil {
		return nil, err
	}
	meals, err := d.MealPlan.View(date, target)
	if err != nil {
		return nil, err
	}

	v := &DashboardView{
		Date:      dayKey(date),
		Counts:    inv.Counts,
		Attention: []InventoryRow{},
		Shopping:  shop,
		Meals:     meals,
	}
	for _, row := range inv.Items {
		if s := row.Freshness.Status; s == freshness.StatusLow || s == freshness.StatusExpired {
			v.Attention = append(v.Attention, row)
		}
	}
	return v, nil
}
