// Package health computes body mass index for the onboarding profile.
package health

import (
	"errors"
	"fmt"
	"math"
)

type Band string

const (
	BandUnderweight Band = "UNDERWEIGHT"
	BandNormal      Band = "NORMAL"
	BandOverweight  Band = "OVERWEIGHT"
	BandObese       Band = "OBESE"
)

var ErrInvalidMeasurement = errors.New("weight and height must be positive")

// DivisionByZeroError is returned when a ratio would divide by zero.
type DivisionByZeroError struct {
	Op string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero", e.Op)
}

type BMI struct {
	Value float64 `json:"bmi"`
	Band  Band    `json:"band"`
}

// Calculate returns the BMI rounded to one decimal and its band.
// A zero height is an error rather than a zero BMI.
func Calculate(weightKg, heightCm float64) (BMI, error) {
	if heightCm == 0 {
		return BMI{}, &DivisionByZeroError{Op: "bmi: height"}
	}
	if weightKg <= 0 || heightCm < 0 || math.IsNaN(weightKg) || math.IsNaN(heightCm) ||
		math.IsInf(weightKg, 0) || math.IsInf(heightCm, 0) {
		return BMI{}, fmt.Errorf("%w: weight=%v height=%v", ErrInvalidMeasurement, weightKg, heightCm)
	}

	m := heightCm / 100
	value := math.Round(weightKg/(m*m)*10) / 10
	return BMI{Value: value, Band: Classify(value)}, nil
}

// Classify maps a BMI value onto its band.
func Classify(bmi float64) Band {
	switch {
	case bmi < 18.5:
		return BandUnderweight
	case bmi < 25:
		return BandNormal
	case bmi < 30:
		return BandOverweight
	default:
		return BandObese
	}
}
