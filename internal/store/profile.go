package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/pantry/internal/model"
)

// ProfileStore keeps the single onboarding profile for this device.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the saved profile, or nil if onboarding has not been completed.
func (s *ProfileStore) Get() (*model.Profile, error) {
	var p model.Profile
	err := s.db.QueryRow(
		`SELECT weight_kg, height_cm, target_calories, updated_at FROM profile WHERE id = 1`,
	).Scan(&p.WeightKg, &p.HeightCm, &p.TargetCalories, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) Save(weightKg, heightCm float64, targetCalories int) (*model.Profile, error) {
	_, err := s.db.Exec(
		`INSERT INTO profile (id, weight_kg, height_cm, target_calories, updated_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET weight_kg = excluded.weight_kg, height_cm = excluded.height_cm,
		 target_calories = excluded.target_calories, updated_at = excluded.updated_at`,
		weightKg, heightCm, targetCalories, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return s.Get()
}
