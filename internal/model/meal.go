package model

// Slot is one of the four meal times a day is keyed by.
type Slot string

const (
	SlotBreakfast Slot = "BREAKFAST"
	SlotLunch     Slot = "LUNCH"
	SlotDinner    Slot = "DINNER"
	SlotSnack     Slot = "SNACK"
)

// Slots lists the meal slots in display order.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// Valid reports whether s is one of the four known slots.
func (s Slot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	}
	return false
}

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

type Meal struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Slot        Slot         `json:"mealType"`
	Calories    float64      `json:"calories"`
	CookingTime int          `json:"cookingTime"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
}

type MealPlanDay struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}
