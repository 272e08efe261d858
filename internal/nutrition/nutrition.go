// Package nutrition totals a day's meals against a calorie target.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/dukerupert/pantry/internal/model"
)

var (
	ErrDuplicateSlot = errors.New("more than one meal in slot")
	ErrUnknownSlot   = errors.New("unknown meal slot")
)

// InvalidTargetError reports a calorie target that cannot be divided by.
type InvalidTargetError struct {
	Target float64
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("calorie target must be positive, got %v", e.Target)
}

// InvalidCaloriesError reports a meal with a negative or non-numeric calorie count.
type InvalidCaloriesError struct {
	Slot     model.Slot
	Calories float64
}

func (e *InvalidCaloriesError) Error() string {
	return fmt.Sprintf("%s: invalid calories %v", e.Slot, e.Calories)
}

// Day holds at most one meal per slot. Missing slots are nil.
type Day map[model.Slot]*model.Meal

type Summary struct {
	TotalCalories float64 `json:"totalCalories"`
	Percentage    float64 `json:"percentage"`
	IsOverTarget  bool    `json:"isOverTarget"`
	Difference    float64 `json:"difference"`
}

// SlotsFromMeals keys a day's meals by slot.
func SlotsFromMeals(meals []model.Meal) (Day, error) {
	d := make(Day, len(model.Slots))
	for i := range meals {
		m := &meals[i]
		if !m.Slot.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, m.Slot)
		}
		if _, ok := d[m.Slot]; ok {
			return nil, fmt.Errorf("%w %s", ErrDuplicateSlot, m.Slot)
		}
		d[m.Slot] = m
	}
	return d, nil
}

// Summarize adds up the calories of the day's meals and compares them with target.
// Percentage is clamped to 100.
func Summarize(d Day, target float64) (Summary, error) {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return Summary{}, &InvalidTargetError{Target: target}
	}

	var total float64
	for _, slot := range model.Slots {
		m := d[slot]
		if m == nil {
			continue
		}
		if m.Calories < 0 || math.IsNaN(m.Calories) || math.IsInf(m.Calories, 0) {
			return Summary{}, &InvalidCaloriesError{Slot: slot, Calories: m.Calories}
		}
		total += m.Calories
	}

	return Summary{
		TotalCalories: total,
		Percentage:    math.Min(total/target*100, 100),
		IsOverTarget:  total > target,
		Difference:    math.Abs(total - target),
	}, nil
}
