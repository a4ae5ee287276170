// Package handlers is the HTTP surface: routing, request decoding, and the
// mapping of domain errors onto machine-readable response codes.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookora/bookora/internal/auth"
	"github.com/bookora/bookora/internal/availability"
	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/runtime"
	"github.com/bookora/bookora/internal/schedule"
)

type Server struct {
	logger       *slog.Logger
	verifier     *auth.Verifier
	bookings     *booking.Service
	schedules    *schedule.Registry
	availability *availability.Generator
	providers    booking.Providers
	readyChecks  []runtime.ReadyCheck
}

func NewServer(
	logger *slog.Logger,
	verifier *auth.Verifier,
	bookings *booking.Service,
	schedules *schedule.Registry,
	gen *availability.Generator,
	providers booking.Providers,
	readyChecks ...runtime.ReadyCheck,
) *Server {
	return &Server{
		logger:       logger,
		verifier:     verifier,
		bookings:     bookings,
		schedules:    schedules,
		availability: gen,
		providers:    providers,
		readyChecks:  readyChecks,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", runtime.HealthHandler())
	r.Get("/readyz", runtime.ReadyHandler(s.readyChecks...))

	// Availability is a read-only browse surface, open to anonymous callers.
	r.Get("/providers/{id}/availability", s.handleAvailability)

	r.Group(func(pr chi.Router) {
		pr.Use(s.verifier.Middleware)

		pr.Post("/appointments", s.handleCreateAppointment)
		pr.Get("/appointments", s.handleListAppointments)
		pr.Patch("/appointments/{id}", s.handleTransitionAppointment)

		pr.Get("/providers/{id}/appointments", s.handleProviderDay)

		pr.Get("/providers/{id}/working-hours", s.handleListWorkingHours)
		pr.Put("/providers/{id}/working-hours", s.handleReplaceWorkingHours)
		pr.Post("/providers/{id}/working-hours/default", s.handleDefaultWorkingHours)

		pr.Get("/providers/{id}/time-off", s.handleListTimeOff)
		pr.Post("/providers/{id}/time-off", s.handleCreateTimeOff)
		pr.Delete("/providers/{id}/time-off/{timeOffID}", s.handleDeleteTimeOff)
	})

	return r
}

// mustActor pulls the authenticated actor resolved by the auth middleware.
// Routes below the middleware always have one; the zero Actor is returned
// only if a handler is wired outside the protected group by mistake.
func mustActor(r *http.Request) booking.Actor {
	actor, _ := auth.ActorFromContext(r.Context())
	return actor
}
