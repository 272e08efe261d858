package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/pantry/internal/state"
	"github.com/dukerupert/pantry/internal/store"
)

// calorieTarget picks the day's target: the query parameter, then the
// onboarding profile, then the default_target_calories setting.
type calorieTarget struct {
	profiles *store.ProfileStore
	settings *store.SettingsStore
}

func (c calorieTarget) resolve(r *http.Request) (float64, error) {
	if v := r.URL.Query().Get("target"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &requestError{msg: "target must be a number"}
		}
		return t, nil
	}
	p, err := c.profiles.Get()
	if err != nil {
		return 0, err
	}
	if p != nil && p.TargetCalories > 0 {
		return float64(p.TargetCalories), nil
	}
	n, err := c.settings.DefaultTargetCalories()
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

type MealPlanHandler struct {
	plan   *state.MealPlan
	target calorieTarget
	now    func() time.Time
	logger *slog.Logger
}

func NewMealPlanHandler(plan *state.MealPlan, profiles *store.ProfileStore, settings *store.SettingsStore, now func() time.Time, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		plan:   plan,
		target: calorieTarget{profiles: profiles, settings: settings},
		now:    now,
		logger: logger,
	}
}

// Get handles GET /api/meal-plan?date=YYYY-MM-DD&target=2000
func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r, h.now())
	if err != nil {
		writeError(w, h.logger, err, "invalid date")
		return
	}
	target, err := h.target.resolve(r)
	if err != nil {
		writeError(w, h.logger, err, "failed to read calorie target")
		return
	}

	v, err := h.plan.Load(r.Context(), day, target)
	if err != nil {
		writeError(w, h.logger, err, "failed to load meal plan")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type DashboardHandler struct {
	dashboard *state.Dashboard
	target    calorieTarget
	now       func() time.Time
	logger    *slog.Logger
}

func NewDashboardHandler(d *state.Dashboard, profiles *store.ProfileStore, settings *store.SettingsStore, now func() time.Time, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: d,
		target:    calorieTarget{profiles: profiles, settings: settings},
		now:       now,
		logger:    logger,
	}
}

// Get handles GET /api/dashboard?date=YYYY-MM-DD
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r, h.now())
	if err != nil {
		writeError(w, h.logger, err, "invalid date")
		return
	}
	target, err := h.target.resolve(r)
	if err != nil {
		writeError(w, h.logger, err, "failed to read calorie target")
		return
	}

	v, err := h.dashboard.Load(r.Context(), day, target)
	if err != nil {
		writeError(w, h.logger, err, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
