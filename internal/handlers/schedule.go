package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/timeutil"
)

// requireProviderOwner verifies the actor may manage the provider's schedule.
// Admins pass unconditionally; everyone else must own the provider row.
func (s *Server) requireProviderOwner(r *http.Request, providerID string) error {
	actor := mustActor(r)
	if actor.IsAdmin() {
		return nil
	}
	provider, err := s.providers.GetProvider(r.Context(), providerID)
	if err != nil {
		return err
	}
	if provider.OwnerUserID == "" || provider.OwnerUserID != actor.UserID {
		return booking.ErrForbidden
	}
	return nil
}

func (s *Server) handleListWorkingHours(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	items, err := s.schedules.List(r.Context(), providerID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toWorkingHoursList(items)})
}

type replaceWorkingHoursRequest struct {
	Items []workingHoursJSON `json:"items"`
}

func (s *Server) handleReplaceWorkingHours(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var body replaceWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	items := make([]model.WorkingHours, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, model.WorkingHours{
			Weekday:   it.Weekday,
			StartTime: it.StartTime,
			EndTime:   it.EndTime,
		})
	}

	stored, err := s.schedules.ReplaceAll(r.Context(), providerID, items)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toWorkingHoursList(stored)})
}

func (s *Server) handleDefaultWorkingHours(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	stored, err := s.schedules.ApplyDefault(r.Context(), providerID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toWorkingHoursList(stored)})
}

func (s *Server) handleListTimeOff(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	items, err := s.schedules.ListTimeOff(r.Context(), providerID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toTimeOffList(items)})
}

type createTimeOffRequest struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

func (s *Server) handleCreateTimeOff(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var body createTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	from, err := timeutil.ParseDate(body.FromDate)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	to, err := timeutil.ParseDate(body.ToDate)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	created, err := s.schedules.AddTimeOff(r.Context(), providerID, from, to)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, timeOffJSON{
		ID:       created.ID,
		FromDate: created.FromDate.Format(time.DateOnly),
		ToDate:   created.ToDate.Format(time.DateOnly),
	})
}

func (s *Server) handleDeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	if err := s.requireProviderOwner(r, providerID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.schedules.RemoveTimeOff(r.Context(), providerID, chi.URLParam(r, "timeOffID")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
