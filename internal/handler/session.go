package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/api"
	"github.com/dukerupert/pantry/internal/keystore"
)

type SessionHandler struct {
	keys   *keystore.Keystore
	now    func() time.Time
	logger *slog.Logger
}

func NewSessionHandler(keys *keystore.Keystore, now func() time.Time, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{keys: keys, now: now, logger: logger}
}

type sessionStatus struct {
	SignedIn  bool       `json:"signed_in"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func (h *SessionHandler) status(token string) sessionStatus {
	if token == "" {
		return sessionStatus{}
	}
	s := sessionStatus{SignedIn: true}
	if exp, ok := api.TokenExpiry(token); ok {
		s.ExpiresAt = &exp
		s.Expired = !h.now().Before(exp)
	}
	return s
}

// Get handles GET /api/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, err := h.keys.Token()
	if err != nil {
		writeError(w, h.logger, err, "failed to read session")
		return
	}
	writeJSON(w, http.StatusOK, h.status(token))
}

// Put handles PUT /api/session
func (h *SessionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		writeMessage(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.keys.SetToken(req.Token); err != nil {
		writeError(w, h.logger, err, "failed to store session")
		return
	}
	h.logger.Info("backend session stored")
	writeJSON(w, http.StatusOK, h.status(req.Token))
}

// Delete handles DELETE /api/session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.keys.Clear(); err != nil {
		writeError(w, h.logger, err, "failed to clear session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
