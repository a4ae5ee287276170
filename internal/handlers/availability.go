package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookora/bookora/internal/timeutil"
)

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := timeutil.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	providerID := chi.URLParam(r, "id")

	slots, err := s.availability.Slots(r.Context(), providerID, date, q.Get("serviceId"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	out := make([]string, 0, len(slots))
	for _, t := range slots {
		out = append(out, t.UTC().Format(time.RFC3339))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"providerId": providerID,
		"date":       date.Format(time.DateOnly),
		"slots":      out,
	})
}
