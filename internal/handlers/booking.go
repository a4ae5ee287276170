package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/timeutil"
)

type createAppointmentRequest struct {
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId"`
	StartAt    string `json:"startAt"`
	EndAt      string `json:"endAt"`
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var body createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	if body.ProviderID == "" {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "providerId is required")
		return
	}
	startAt, err := time.Parse(time.RFC3339, body.StartAt)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "startAt must be RFC 3339")
		return
	}
	var endAt time.Time
	if body.EndAt != "" {
		endAt, err = time.Parse(time.RFC3339, body.EndAt)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, "bad_request", "endAt must be RFC 3339")
			return
		}
	}

	appt, err := s.bookings.Create(r.Context(), mustActor(r), booking.CreateRequest{
		ProviderID: body.ProviderID,
		ServiceID:  body.ServiceID,
		StartAt:    startAt.UTC(),
		EndAt:      endAt.UTC(),
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentJSON(appt))
}

type transitionRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleTransitionAppointment(w http.ResponseWriter, r *http.Request) {
	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	action := booking.Action(strings.ToLower(strings.TrimSpace(body.Action)))
	if action != booking.ActionConfirm && action != booking.ActionCancel {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "action must be confirm or cancel")
		return
	}

	appt, err := s.bookings.Transition(r.Context(), mustActor(r), chi.URLParam(r, "id"), action)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentJSON(appt))
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := booking.ListQuery{
		Mine:       q.Get("mine") == "true",
		ProviderID: q.Get("providerId"),
		Status:     model.Status(strings.ToUpper(q.Get("status"))),
		SortDesc:   q.Get("sort") == "desc",
	}
	if query.Status != "" && !query.Status.Valid() {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "unknown status filter")
		return
	}

	var err error
	if query.From, err = parseInstant(q.Get("from")); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "from must be RFC 3339 or YYYY-MM-DD")
		return
	}
	if query.To, err = parseInstant(q.Get("to")); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "to must be RFC 3339 or YYYY-MM-DD")
		return
	}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	page, err := s.bookings.List(r.Context(), mustActor(r), query)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(page))
}

func (s *Server) handleProviderDay(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	appts, err := s.bookings.ProviderDay(r.Context(), mustActor(r), chi.URLParam(r, "id"), day)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  day.Format(time.DateOnly),
		"items": toAppointmentList(appts),
	})
}

// parseInstant accepts either an RFC 3339 timestamp or a bare date.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return timeutil.ParseDate(s)
}
