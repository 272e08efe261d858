// Package quantity turns raw stock amounts into display strings.
package quantity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dukerupert/pantry/internal/model"
)

var (
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// ParseUnit maps the spellings the backend and forms use onto a Unit.
func ParseUnit(s string) (model.Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gr", "gram", "grams":
		return model.UnitGram, nil
	case "ml", "millilitre", "milliliter", "millilitres", "milliliters":
		return model.UnitMilliliter, nil
	case "pcs", "pc", "piece", "pieces":
		return model.UnitPiece, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Label returns the canonical lowercase label for u.
func Label(u model.Unit) string {
	switch u {
	case model.UnitGram:
		return "g"
	case model.UnitMilliliter:
		return "ml"
	case model.UnitPiece:
		return "pcs"
	}
	return strings.ToLower(string(u))
}

// Format renders quantity for display, scaling grams and millilitres up
// once they reach a thousand.
func Format(quantity float64, u model.Unit) (string, error) {
	if quantity < 0 {
		return "", ErrNegativeQuantity
	}

	switch u {
	case model.UnitGram:
		if quantity >= 1000 {
			return number(quantity/1000) + " kg", nil
		}
		return number(quantity) + " g", nil
	case model.UnitMilliliter:
		if quantity >= 1000 {
			return number(quantity/1000) + " l", nil
		}
		return number(quantity) + " ml", nil
	case model.UnitPiece:
		if quantity == 1 {
			return "1 pc", nil
		}
		return number(quantity) + " pcs", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, u)
}

func number(f float64) string {
	return humanize.FtoaWithDigits(f, 2)
}
