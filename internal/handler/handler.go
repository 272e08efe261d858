// Package handler serves the pantry JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/pantry/internal/api"
	"github.com/dukerupert/pantry/internal/freshness"
	"github.com/dukerupert/pantry/internal/health"
	"github.com/dukerupert/pantry/internal/keystore"
	"github.com/dukerupert/pantry/internal/nutrition"
	"github.com/dukerupert/pantry/internal/quantity"
	"github.com/dukerupert/pantry/internal/shopping"
	"github.com/dukerupert/pantry/internal/state"
)

// Notifier fans changes out to connected screens. *websocket.Hub implements it.
type Notifier interface {
	Publish(entity, action, id string, extra map[string]any)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(v)
}

// parseDay reads ?date=YYYY-MM-DD, defaulting to today.
func parseDay(r *http.Request, now time.Time) (time.Time, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, v, now.Location())
	if err != nil {
		return time.Time{}, &freshness.InvalidDateError{Field: "date", Value: v, Err: err}
	}
	return d, nil
}

// requestError is a malformed request parameter.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// isInputError reports errors caused by the request itself.
func isInputError(err error) bool {
	var (
		reqErr    *requestError
		dateErr   *freshness.InvalidDateError
		targetErr *nutrition.InvalidTargetError
		zeroErr   *health.DivisionByZeroError
	)
	return errors.As(err, &reqErr) ||
		errors.Is(err, quantity.ErrUnknownUnit) ||
		errors.Is(err, quantity.ErrNegativeQuantity) ||
		errors.Is(err, health.ErrInvalidMeasurement) ||
		errors.As(err, &dateErr) ||
		errors.As(err, &targetErr) ||
		errors.As(err, &zeroErr)
}

// isBadBackendData reports records the backend sent that cannot be aggregated.
func isBadBackendData(err error) bool {
	var (
		priceErr  *shopping.InvalidPriceError
		calErr    *nutrition.InvalidCaloriesError
		decodeErr *api.DecodeError
	)
	return errors.As(err, &decodeErr) ||
		errors.Is(err, nutrition.ErrDuplicateSlot) ||
		errors.Is(err, nutrition.ErrUnknownSlot) ||
		errors.Is(err, shopping.ErrNegativeBudget) ||
		errors.As(err, &priceErr) ||
		errors.As(err, &calErr)
}

// writeError maps err to a status code. Anything unrecognised is logged and
// reported as fallback with a 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var apiErr *api.APIError
	switch {
	case isBadBackendData(err):
		logger.Warn("invalid backend data", "error", err)
		writeMessage(w, http.StatusBadGateway, err.Error())
	case isInputError(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrNoSession), errors.Is(err, api.ErrSessionExpired):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, api.ErrNotFound), errors.Is(err, state.ErrItemNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, keystore.ErrNoPassphrase):
		writeMessage(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, keystore.ErrDecrypt):
		logger.Warn("stored session unreadable", "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "stored session cannot be decrypted: check PANTRY_KEYSTORE_PASSPHRASE or sign in again")
	case errors.As(err, &apiErr):
		logger.Warn("backend error", "status", apiErr.Status, "error", err)
		writeMessage(w, http.StatusBadGateway, apiErr.Error())
	default:
		logger.Error(fallback, "error", err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}
