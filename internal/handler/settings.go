package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/pantry/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	notify        Notifier
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, notify Notifier, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, notify: notify, logger: logger}
}

// List handles GET /api/settings
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetAll()
	if err != nil {
		writeError(w, h.logger, err, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings/{key}
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !store.IsKnownSetting(key) {
		writeMessage(w, http.StatusNotFound, "unknown setting: "+key)
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateSetting(key, req.Value); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.settingsStore.Set(key, req.Value); err != nil {
		writeError(w, h.logger, err, "failed to save settings")
		return
	}
	h.notify.Publish("settings", "updated", key, map[string]any{"value": req.Value})
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func validateSetting(key, value string) error {
	switch key {
	case store.SettingExpiryReminders:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	case store.SettingDefaultTargetCalories:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
	}
	return nil
}
