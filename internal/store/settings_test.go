package store

import "testing"

func TestSettingsSeedData(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	all, err := ss.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	expected := map[string]string{
		"expiry_reminders":        "true",
		"default_target_calories": "2000",
	}
	for key, want := range expected {
		if got := all[key]; got != want {
			t.Errorf("setting %q = %q, want %q", key, got, want)
		}
	}
}

func TestSettingsGetMissing(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	val, err := ss.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "" {
		t.Errorf("missing key = %q, want empty", val)
	}
}

func TestSettingsSetOverwrites(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	if err := ss.Set(SettingExpiryReminders, "false"); err != nil {
		t.Fatalf("set: %v", err)
	}
	on, err := ss.RemindersEnabled()
	if err != nil {
		t.Fatalf("reminders enabled: %v", err)
	}
	if on {
		t.Error("expected reminders disabled")
	}

	if err := ss.Set(SettingDefaultTargetCalories, "1800"); err != nil {
		t.Fatalf("set: %v", err)
	}
	target, err := ss.DefaultTargetCalories()
	if err != nil {
		t.Fatalf("default target: %v", err)
	}
	if target != 1800 {
		t.Errorf("target = %d, want 1800", target)
	}
}

func TestSettingsBadTarget(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))
	ss.Set(SettingDefaultTargetCalories, "lots")

	if _, err := ss.DefaultTargetCalories(); err == nil {
		t.Error("expected parse error")
	}
}

func TestIsKnownSetting(t *testing.T) {
	if !IsKnownSetting("expiry_reminders") {
		t.Error("expiry_reminders should be known")
	}
	if IsKnownSetting("theme") {
		t.Error("theme should not be known")
	}
}
