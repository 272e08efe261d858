package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Known setting keys. Anything else is rejected by the settings API.
const (
	SettingExpiryReminders       = "expiry_reminders"
	SettingDefaultTargetCalories = "default_target_calories"
)

var settingKeys = []string{
	SettingExpiryReminders,
	SettingDefaultTargetCalories,
}

// IsKnownSetting reports whether key is a setting the app understands.
func IsKnownSetting(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or "" and no error when the key is unset.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// RemindersEnabled reads the expiry reminder switch. Unset means on.
func (s *SettingsStore) RemindersEnabled() (bool, error) {
	v, err := s.Get(SettingExpiryReminders)
	if err != nil {
		return false, err
	}
	return v != "false", nil
}

// DefaultTargetCalories returns the household fallback calorie target.
func (s *SettingsStore) DefaultTargetCalories() (int, error) {
	v, err := s.Get(SettingDefaultTargetCalories)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 2000, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", SettingDefaultTargetCalories, err)
	}
	return n, nil
}
