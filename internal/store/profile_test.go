package store

import "testing"

func TestProfileEmpty(t *testing.T) {
	ps := NewProfileStore(setupTestDB(t))

	p, err := ps.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
}

func TestProfileSaveAndUpdate(t *testing.T) {
	ps := NewProfileStore(setupTestDB(t))

	p, err := ps.Save(70, 175, 2200)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.WeightKg != 70 || p.HeightCm != 175 || p.TargetCalories != 2200 {
		t.Errorf("profile = %+v", p)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	p, err = ps.Save(68.5, 175, 2000)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.WeightKg != 68.5 || p.TargetCalories != 2000 {
		t.Errorf("updated profile = %+v", p)
	}
}
