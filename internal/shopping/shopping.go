// Package shopping derives list progress and budget figures from shopping list items.
package shopping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dukerupert/pantry/internal/model"
)

var ErrNegativeBudget = errors.New("budget limit must not be negative")

// InvalidPriceError reports a line whose estimated price is negative or not a number.
type InvalidPriceError struct {
	Index int
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("item %d: invalid estimated price %v", e.Index, e.Price)
}

// Line is the part of a shopping list item the aggregator reads.
type Line struct {
	EstimatedPrice float64
	IsBought       bool
}

// LinesFrom projects shopping list items onto aggregator lines.
func LinesFrom(items []model.ShoppingListItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{EstimatedPrice: it.EstimatedPrice, IsBought: it.IsBought}
	}
	return lines
}

type Stats struct {
	TotalItems     int     `json:"totalItems"`
	BoughtItems    int     `json:"boughtItems"`
	RemainingItems int     `json:"remainingItems"`
	TotalPrice     float64 `json:"totalPrice"`
	BoughtPrice    float64 `json:"boughtPrice"`
	RemainingPrice float64 `json:"remainingPrice"`
}

// Aggregate partitions lines into bought and unbought and sums each side.
func Aggregate(lines []Line) (Stats, error) {
	var s Stats
	for i, l := range lines {
		if l.EstimatedPrice < 0 || math.IsNaN(l.EstimatedPrice) || math.IsInf(l.EstimatedPrice, 0) {
			return Stats{}, &InvalidPriceError{Index: i, Price: l.EstimatedPrice}
		}
		s.TotalPrice += l.EstimatedPrice
		if l.IsBought {
			s.BoughtItems++
			s.BoughtPrice += l.EstimatedPrice
		}
	}
	s.TotalItems = len(lines)
	s.RemainingItems = s.TotalItems - s.BoughtItems
	s.RemainingPrice = s.TotalPrice - s.BoughtPrice
	return s, nil
}

// Progress is the share of items bought, as a whole percentage. An empty
// list has made no progress.
func (s Stats) Progress() int {
	if s.TotalItems == 0 {
		return 0
	}
	return int(math.Round(float64(s.BoughtItems) / float64(s.TotalItems) * 100))
}

type BudgetStatus struct {
	Limit      float64 `json:"limit"`
	Currency   string  `json:"currency"`
	Planned    float64 `json:"planned"`
	Remaining  float64 `json:"remaining"`
	OverBudget bool    `json:"overBudget"`
	Percent    int     `json:"percent"`
}

// CompareBudget sets the list's total against the family's budget limit.
// A zero limit means no budget is set; Percent stays 0.
func CompareBudget(s Stats, family model.Family) (BudgetStatus, error) {
	if family.BudgetLimit < 0 {
		return BudgetStatus{}, ErrNegativeBudget
	}
	b := BudgetStatus{
		Limit:     family.BudgetLimit,
		Currency:  family.Currency,
		Planned:   s.TotalPrice,
		Remaining: family.BudgetLimit - s.TotalPrice,
	}
	if family.BudgetLimit > 0 {
		b.OverBudget = s.TotalPrice > family.BudgetLimit
		b.Percent = int(math.Round(s.TotalPrice / family.BudgetLimit * 100))
	}
	return b, nil
}

// FormatPrice renders amount with two decimals and digit grouping,
// followed by the currency code when one is given.
func FormatPrice(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := sign + humanize.FormatFloat("#,###.##", amount)
	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" {
		s += " " + c
	}
	return s
}
