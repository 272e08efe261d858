package model

import "time"

// Profile holds the onboarding measurements kept on this device.
type Profile struct {
	WeightKg       float64   `json:"weight_kg"`
	HeightCm       float64   `json:"height_cm"`
	TargetCalories int       `json:"target_calories"`
	UpdatedAt      time.Time `json:"updated_at"`
}
