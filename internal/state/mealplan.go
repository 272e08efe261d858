package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/nutrition"
)

type MealPlanBackend interface {
	GetMealPlan(ctx context.Context, date time.Time) (*model.MealPlanDay, error)
}

// maxCachedDays bounds how many fetched days MealPlan keeps.
const maxCachedDays = 14

// MealPlan caches fetched days keyed by YYYY-MM-DD. Only the most recently
// refreshed maxCachedDays are kept.
type MealPlan struct {
	backend MealPlanBackend

	mu    sync.RWMutex
	days  map[string]model.MealPlanDay
	order []string // least recently refreshed first
}

func NewMealPlan(backend MealPlanBackend) *MealPlan {
	return &MealPlan{backend: backend, days: make(map[string]model.MealPlanDay)}
}

func dayKey(date time.Time) string {
	return date.Format(time.DateOnly)
}

func (s *MealPlan) Refresh(ctx context.Context, date time.Time) error {
	day, err := s.backend.GetMealPlan(ctx, date)
	if err != nil {
		return fmt.Errorf("refresh meal plan %s: %w", dayKey(date), err)
	}
	key := dayKey(date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.order = append(s.order, key)
	s.days[key] = *day
	for len(s.order) > maxCachedDays {
		delete(s.days, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

type MealPlanView struct {
	Date    string            `json:"date"`
	Target  float64           `json:"target"`
	Slots   []SlotView        `json:"slots"`
	Summary nutrition.Summary `json:"summary"`
}

type SlotView struct {
	Slot model.Slot  `json:"slot"`
	Meal *model.Meal `json:"meal"`
}

// View lays out a fetched day slot by slot and sums its calories against target.
func (s *MealPlan) View(date time.Time, target float64) (MealPlanView, error) {
	s.mu.RLock()
	day, ok := s.days[dayKey(date)]
	s.mu.RUnlock()
	if !ok {
		return MealPlanView{}, ErrNotLoaded
	}

	slots, err := nutrition.SlotsFromMeals(day.Meals)
	if err != nil {
		return MealPlanView{}, err
	}
	sum, err := nutrition.Summarize(slots, target)
	if err != nil {
		return MealPlanView{}, err
	}

	v := MealPlanView{
		Date:    dayKey(date),
		Target:  target,
		Slots:   make([]SlotView, len(model.Slots)),
		Summary: sum,
	}
	for i, slot := range model.Slots {
		v.Slots[i] = SlotView{Slot: slot, Meal: slots[slot]}
	}
	return v, nil
}

// Load refreshes date and returns its view.
func (s *MealPlan) Load(ctx context.Context, date time.Time, target float64) (MealPlanView, error) {
	if err := s.Refresh(ctx, date); err != nil {
		return MealPlanView{}, err
	}
	return s.View(date, target)
}
