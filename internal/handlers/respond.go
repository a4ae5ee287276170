package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/schedule"
	"github.com/bookora/bookora/internal/timeutil"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps domain errors onto stable machine codes. Anything not in
// the taxonomy is a 500 and gets logged; the caller sees no internals.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code, status := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
		writeErrorCode(w, status, code, "internal error")
		return
	}
	writeErrorCode(w, status, code, err.Error())
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		return "invalid_range", http.StatusBadRequest
	case errors.Is(err, booking.ErrPastBooking):
		return "past_booking", http.StatusBadRequest
	case errors.Is(err, booking.ErrSelfBooking):
		return "self_booking", http.StatusBadRequest
	case errors.Is(err, booking.ErrInvalidService):
		return "invalid_service", http.StatusBadRequest
	case errors.Is(err, booking.ErrOutsideWorkingHours):
		return "outside_working_hours", http.StatusBadRequest
	case errors.Is(err, booking.ErrProviderTimeOff):
		return "provider_time_off", http.StatusBadRequest
	case errors.Is(err, booking.ErrProviderNotFound):
		return "provider_not_found", http.StatusNotFound
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, schedule.ErrTimeOffNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		return "forbidden", http.StatusForbidden
	case errors.Is(err, booking.ErrSlotConflict):
		return "slot_conflict", http.StatusConflict
	case errors.Is(err, booking.ErrInvalidTransition):
		return "invalid_transition", http.StatusConflict
	case errors.Is(err, booking.ErrBookingFailed):
		return "booking_failed", http.StatusServiceUnavailable
	case errors.Is(err, schedule.ErrInvalidWorkingHours):
		return "invalid_working_hours", http.StatusBadRequest
	case errors.Is(err, schedule.ErrInvalidTimeOff):
		return "invalid_time_off", http.StatusBadRequest
	case errors.Is(err, timeutil.ErrInvalidDate):
		return "invalid_date", http.StatusBadRequest
	case errors.Is(err, timeutil.ErrInvalidTimeFormat):
		return "invalid_time_format", http.StatusBadRequest
	}
	return "internal", http.StatusInternalServerError
}
