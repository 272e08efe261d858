package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantry/internal/health"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/store"
)

type ProfileHandler struct {
	profiles *store.ProfileStore
	notify   Notifier
	logger   *slog.Logger
}

func NewProfileHandler(ps *store.ProfileStore, notify Notifier, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: ps, notify: notify, logger: logger}
}

type profileResponse struct {
	*model.Profile
	BMI health.BMI `json:"bmi"`
}

type profileRequest struct {
	WeightKg       float64 `json:"weight_kg"`
	HeightCm       float64 `json:"height_cm"`
	TargetCalories int     `json:"target_calories"`
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get()
	if err != nil {
		writeError(w, h.logger, err, "failed to get profile")
		return
	}
	if p == nil {
		writeMessage(w, http.StatusNotFound, "profile not set")
		return
	}

	bmi, err := health.Calculate(p.WeightKg, p.HeightCm)
	if err != nil {
		writeError(w, h.logger, err, "failed to get profile")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p, BMI: bmi})
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	bmi, err := health.Calculate(req.WeightKg, req.HeightCm)
	if err != nil {
		writeError(w, h.logger, err, "invalid measurements")
		return
	}
	if req.TargetCalories <= 0 {
		writeMessage(w, http.StatusBadRequest, "target_calories must be positive")
		return
	}

	p, err := h.profiles.Save(req.WeightKg, req.HeightCm, req.TargetCalories)
	if err != nil {
		writeError(w, h.logger, err, "failed to save profile")
		return
	}

	h.notify.Publish("profile", "updated", "", nil)
	writeJSON(w, http.StatusOK, profileResponse{Profile: p, BMI: bmi})
}
