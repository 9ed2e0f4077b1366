package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"urbanpark/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP statuses: missing records are
// 404, state conflicts 409, rejected input 422, anything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrPassNotFound),
		errors.Is(err, core.ErrNoActiveSession),
		errors.Is(err, core.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrLotFull),
		errors.Is(err, core.ErrPlateAlreadyParked):
		return http.StatusConflict
	case errors.Is(err, core.ErrEmptyPlate),
		errors.Is(err, core.ErrEmptyLabel),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownPassKind),
		errors.Is(err, core.ErrInvalidPassPeriod),
		errors.Is(err, core.ErrPassPlateMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// parseDate accepts "YYYY-MM-DD"; empty input yields the zero date.
func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}
