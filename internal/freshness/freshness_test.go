package freshness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantry/internal/model"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestClassifyNoExpiry(t *testing.T) {
	r := Classify(nil, now)
	assert.Nil(t, r.DaysUntilExpiration)
	assert.Equal(t, StatusFresh, r.Status)
	assert.Equal(t, 100, r.FreshnessPercent)
}

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name    string
		expiry  *time.Time
		days    int
		status  Status
		percent int
	}{
		{"exactly now", at(0), 0, StatusExpired, 0},
		{"yesterday", at(-day), -1, StatusExpired, 0},
		{"one hour ago", at(-time.Hour), 0, StatusExpired, 0},
		{"in one hour", at(time.Hour), 1, StatusLow, 10},
		{"tomorrow", at(day), 1, StatusLow, 10},
		{"in two days", at(2 * day), 2, StatusOkay, 50},
		{"in three days", at(3 * day), 3, StatusOkay, 50},
		{"in three days and a bit", at(3*day + time.Minute), 4, StatusFresh, 57},
		{"in five days", at(5 * day), 5, StatusFresh, 71},
		{"in a week", at(7 * day), 7, StatusFresh, 100},
		{"in eight days", at(8 * day), 8, StatusFresh, 100},
		{"in a month", at(30 * day), 30, StatusFresh, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.expiry, now)
			require.NotNil(t, r.DaysUntilExpiration)
			assert.Equal(t, tt.days, *r.DaysUntilExpiration)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.percent, r.FreshnessPercent)
		})
	}
}

func TestClassifyPercentInRange(t *testing.T) {
	for h := -100; h <= 1000; h += 7 {
		r := Classify(at(time.Duration(h)*time.Hour), now)
		assert.GreaterOrEqual(t, r.FreshnessPercent, 0)
		assert.LessOrEqual(t, r.FreshnessPercent, 100)
	}
}

func TestClassifyISO(t *testing.T) {
	r, err := ClassifyISO("2026-03-11T09:30:00Z", "2026-03-10T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, StatusLow, r.Status)
	assert.Equal(t, 10, r.FreshnessPercent)

	r, err = ClassifyISO("", "2026-03-10T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, StatusFresh, r.Status)
	assert.Nil(t, r.DaysUntilExpiration)

	r, err = ClassifyISO("2026-03-20", "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, *r.DaysUntilExpiration)
}

func TestClassifyISOInvalid(t *testing.T) {
	_, err := ClassifyISO("next tuesday", "2026-03-10T09:30:00Z")
	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "expiry", dateErr.Field)

	_, err = ClassifyISO("2026-03-11", "")
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "now", dateErr.Field)
}

func TestSummarize(t *testing.T) {
	items := []model.InventoryItem{
		{ID: "rice", Quantity: 1000, Unit: model.UnitGram},
		{ID: "milk", Quantity: 1000, Unit: model.UnitMilliliter, ExpiryDate: at(day)},
		{ID: "yogurt", Quantity: 2, Unit: model.UnitPiece, ExpiryDate: at(-day)},
		{ID: "cheese", Quantity: 200, Unit: model.UnitGram, ExpiryDate: at(10 * day)},
	}

	s := Summarize(items, now)
	require.Len(t, s.Items, 4)

	var order []string
	for _, it := range s.Items {
		order = append(order, it.ID)
	}
	assert.Equal(t, []string{"yogurt", "milk", "cheese", "rice"}, order)

	assert.Equal(t, 1, s.Counts[StatusExpired])
	assert.Equal(t, 1, s.Counts[StatusLow])
	assert.Equal(t, 0, s.Counts[StatusOkay])
	assert.Equal(t, 2, s.Counts[StatusFresh])
}
