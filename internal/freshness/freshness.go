// Package freshness classifies stock by how close it is to its expiry date.
package freshness

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/model"
)

type Status string

const (
	StatusFresh   Status = "FRESH"
	StatusOkay    Status = "OKAY"
	StatusLow     Status = "LOW"
	StatusExpired Status = "EXPIRED"
)

const day = 24 * time.Hour

// Result is the derived freshness of a single item.
type Result struct {
	DaysUntilExpiration *int   `json:"daysUntilExpiration"`
	Status              Status `json:"status"`
	FreshnessPercent    int    `json:"freshnessPercent"`
}

// InvalidDateError reports an expiry or reference date that could not be parsed.
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s date %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// Classify computes the freshness of an item expiring at expiry, as seen at now.
// A nil expiry means the item is not tracked and is always fresh.
func Classify(expiry *time.Time, now time.Time) Result {
	if expiry == nil {
		return Result{Status: StatusFresh, FreshnessPercent: 100}
	}

	days := int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
	r := Result{DaysUntilExpiration: &days}

	switch {
	case days <= 0:
		r.Status, r.FreshnessPercent = StatusExpired, 0
	case days <= 1:
		r.Status, r.FreshnessPercent = StatusLow, 10
	case days <= 3:
		r.Status, r.FreshnessPercent = StatusOkay, 50
	default:
		r.Status = StatusFresh
		r.FreshnessPercent = min(100, int(math.Round(float64(days)/7*100)))
	}
	return r
}

// ClassifyISO is Classify over string dates as they arrive from the backend.
// An empty expiry means no expiry is tracked.
func ClassifyISO(expiryISO, nowISO string) (Result, error) {
	now, err := ParseDate(nowISO)
	if err != nil {
		return Result{}, &InvalidDateError{Field: "now", Value: nowISO, Err: err}
	}
	if strings.TrimSpace(expiryISO) == "" {
		return Classify(nil, now), nil
	}
	expiry, err := ParseDate(expiryISO)
	if err != nil {
		return Result{}, &InvalidDateError{Field: "expiry", Value: expiryISO, Err: err}
	}
	return Classify(&expiry, now), nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// ItemFreshness pairs an inventory item with its classification.
type ItemFreshness struct {
	model.InventoryItem
	Freshness Result `json:"freshness"`
}

// Summary counts a set of items per status.
type Summary struct {
	Items  []ItemFreshness `json:"items"`
	Counts map[Status]int  `json:"counts"`
}

// Summarize classifies every item and orders them soonest expiry first.
// Items without an expiry date sort last, keeping their input order.
func Summarize(items []model.InventoryItem, now time.Time) Summary {
	s := Summary{
		Items: make([]ItemFreshness, 0, len(items)),
		Counts: map[Status]int{
			StatusFresh:   0,
			StatusOkay:    0,
			StatusLow:     0,
			StatusExpired: 0,
		},
	}
	for _, item := range items {
		r := Classify(item.ExpiryDate, now)
		s.Items = append(s.Items, ItemFreshness{InventoryItem: item, Freshness: r})
		s.Counts[r.Status]++
	}

	sort.SliceStable(s.Items, func(i, j int) bool {
		a, b := s.Items[i].ExpiryDate, s.Items[j].ExpiryDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return s
}
