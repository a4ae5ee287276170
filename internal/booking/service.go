// Package booking owns the appointment ledger policy: admission checks for
// new bookings and the status state machine.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/timeutil"
)

// createAttempts bounds retries of the ledger critical section when the
// store aborts on contention.
const createAttempts = 3

// NowFunc supplies wall-clock time. Injected so tests can pin "now".
type NowFunc func() time.Time

// Actor is the externally resolved identity performing an operation.
type Actor struct {
	UserID string
	Role   model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Providers is the read-through lookup for providers and services.
type Providers interface {
	// GetProvider returns ErrProviderNotFound for unknown ids.
	GetProvider(ctx context.Context, id string) (model.Provider, error)
	// GetService returns ErrInvalidService for unknown ids.
	GetService(ctx context.Context, id string) (model.Service, error)
}

// Schedule exposes the parts of the schedule registry the policy consults.
type Schedule interface {
	IsDayOff(ctx context.Context, providerID string, date time.Time) (bool, error)
	ListWorkingHoursByWeekday(ctx context.Context, providerID string, weekday int) ([]model.WorkingHours, error)
}

// Ledger is the appointment store. Create must run its conflict check and
// insert atomically with respect to other Create calls for the same
// provider, returning ErrSlotConflict on overlap and ErrTxContention on a
// transient abort.
type Ledger interface {
	Create(ctx context.Context, appt model.Appointment) (model.Appointment, error)
	Get(ctx context.Context, id string) (model.Appointment, error)
	SetStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error)
	List(ctx context.Context, f ListFilter) ([]model.Appointment, int, error)
	ListProviderDay(ctx context.Context, providerID string, day time.Time) ([]model.Appointment, error)
}

// ListFilter is the resolved, permission-checked query the ledger executes.
type ListFilter struct {
	UserID     string
	ProviderID string
	Status     model.Status
	From       time.Time
	To         time.Time
	Offset     int
	Limit      int
	SortDesc   bool
}

// ListQuery is the caller-supplied query before permission resolution.
type ListQuery struct {
	Mine       bool
	ProviderID string
	Status     model.Status
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
	SortDesc   bool
}

type Page struct {
	Items    []model.Appointment
	Page     int
	PageSize int
	Total    int
}

type CreateRequest struct {
	ProviderID string
	ServiceID  string
	StartAt    time.Time
	// EndAt may be zero; it is then derived from the service duration
	// (or the 30-minute default).
	EndAt time.Time
}

type Service struct {
	providers Providers
	schedule  Schedule
	ledger    Ledger
	now       NowFunc
}

func NewService(providers Providers, schedule Schedule, ledger Ledger, now NowFunc) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{providers: providers, schedule: schedule, ledger: ledger, now: now}
}

// Create admits or rejects a booking request. The conflict check and insert
// are delegated to the ledger as one critical section per provider; transient
// store aborts are retried a bounded number of times.
func (s *Service) Create(ctx context.Context, actor Actor, req CreateRequest) (model.Appointment, error) {
	if req.StartAt.IsZero() {
		return model.Appointment{}, ErrInvalidRange
	}
	if !req.EndAt.IsZero() && !req.EndAt.After(req.StartAt) {
		return model.Appointment{}, ErrInvalidRange
	}
	if req.StartAt.Before(s.now()) {
		return model.Appointment{}, ErrPastBooking
	}

	provider, err := s.providers.GetProvider(ctx, req.ProviderID)
	if err != nil {
		return model.Appointment{}, err
	}
	if provider.OwnerUserID != "" && provider.OwnerUserID == actor.UserID {
		return model.Appointment{}, ErrSelfBooking
	}

	duration := 30 * time.Minute
	if req.ServiceID != "" {
		svc, err := s.providers.GetService(ctx, req.ServiceID)
		if err != nil {
			return model.Appointment{}, err
		}
		if svc.ProviderID != req.ProviderID {
			return model.Appointment{}, ErrInvalidService
		}
		if svc.DurationMinutes > 0 {
			duration = time.Duration(svc.DurationMinutes) * time.Minute
		}
	}
	endAt := req.EndAt
	if endAt.IsZero() {
		endAt = req.StartAt.Add(duration)
	}

	if err := s.checkWithinWorkingHours(ctx, req.ProviderID, req.StartAt, endAt); err != nil {
		return model.Appointment{}, err
	}

	off, err := s.schedule.IsDayOff(ctx, req.ProviderID, timeutil.DateOnly(req.StartAt))
	if err != nil {
		return model.Appointment{}, fmt.Errorf("check day off: %w", err)
	}
	if off {
		return model.Appointment{}, ErrProviderTimeOff
	}

	appt := model.Appointment{
		UserID:     actor.UserID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		StartAt:    req.StartAt,
		EndAt:      endAt,
		Status:     model.StatusBooked,
	}
	for attempt := 0; attempt < createAttempts; attempt++ {
		created, err := s.ledger.Create(ctx, appt)
		if errors.Is(err, ErrTxContention) {
			continue
		}
		return created, err
	}
	return model.Appointment{}, ErrBookingFailed
}

func (s *Service) checkWithinWorkingHours(ctx context.Context, providerID string, startAt, endAt time.Time) error {
	rows, err := s.schedule.ListWorkingHoursByWeekday(ctx, providerID, timeutil.Weekday(startAt))
	if err != nil {
		return fmt.Errorf("list working hours: %w", err)
	}
	for _, row := range rows {
		sh, sm, err := timeutil.ParseHHMM(row.StartTime)
		if err != nil {
			continue
		}
		eh, em, err := timeutil.ParseHHMM(row.EndTime)
		if err != nil {
			continue
		}
		winStart := timeutil.Combine(startAt, sh, sm)
		winEnd := timeutil.Combine(startAt, eh, em)
		if timeutil.Contains(winStart, winEnd, startAt, endAt) {
			return nil
		}
	}
	return ErrOutsideWorkingHours
}

// Transition applies a confirm or cancel action under the permission rules:
// cancel by admin, the booking client, or the provider owner; confirm by
// admin or the provider owner only. Confirming an already confirmed
// appointment is a no-op success.
func (s *Service) Transition(ctx context.Context, actor Actor, appointmentID string, action Action) (model.Appointment, error) {
	appt, err := s.ledger.Get(ctx, appointmentID)
	if err != nil {
		return model.Appointment{}, err
	}

	provider, err := s.providers.GetProvider(ctx, appt.ProviderID)
	if err != nil {
		// The appointment exists, so a missing provider is a store
		// inconsistency rather than a caller mistake.
		return model.Appointment{}, fmt.Errorf("load provider for appointment %s: %w", appointmentID, err)
	}
	isOwner := provider.OwnerUserID != "" && provider.OwnerUserID == actor.UserID

	switch action {
	case ActionConfirm:
		if !actor.IsAdmin() && !isOwner {
			return model.Appointment{}, ErrForbidden
		}
		if appt.Status == model.StatusConfirmed {
			return appt, nil
		}
		if !appt.Status.CanTransitionTo(model.StatusConfirmed) {
			return model.Appointment{}, ErrInvalidTransition
		}
		return s.ledger.SetStatus(ctx, appt.ID, model.StatusConfirmed)
	case ActionCancel:
		if !actor.IsAdmin() && !isOwner && actor.UserID != appt.UserID {
			return model.Appointment{}, ErrForbidden
		}
		if !appt.Status.CanTransitionTo(model.StatusCancelled) {
			return model.Appointment{}, ErrInvalidTransition
		}
		return s.ledger.SetStatus(ctx, appt.ID, model.StatusCancelled)
	default:
		return model.Appointment{}, ErrInvalidTransition
	}
}

// List resolves scope and pagination, then queries the ledger. Scopes:
// mine (the actor's own bookings), a provider the actor owns, or, without
// either, everything; the last is admin only.
func (s *Service) List(ctx context.Context, actor Actor, q ListQuery) (Page, error) {
	f := ListFilter{
		Status:   q.Status,
		From:     q.From,
		To:       q.To,
		SortDesc: q.SortDesc,
	}

	switch {
	case q.Mine:
		f.UserID = actor.UserID
	case q.ProviderID != "":
		if !actor.IsAdmin() {
			provider, err := s.providers.GetProvider(ctx, q.ProviderID)
			if err != nil {
				return Page{}, err
			}
			if provider.OwnerUserID == "" || provider.OwnerUserID != actor.UserID {
				return Page{}, ErrForbidden
			}
		}
		f.ProviderID = q.ProviderID
	default:
		if !actor.IsAdmin() {
			return Page{}, ErrForbidden
		}
	}

	page, pageSize := normalizePagination(q.Page, q.PageSize)
	f.Offset = (page - 1) * pageSize
	f.Limit = pageSize

	items, total, err := s.ledger.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

// ProviderDay returns the provider's non-cancelled appointments for one day,
// ordered by start. Owner or admin only.
func (s *Service) ProviderDay(ctx context.Context, actor Actor, providerID string, day time.Time) ([]model.Appointment, error) {
	if !actor.IsAdmin() {
		provider, err := s.providers.GetProvider(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if provider.OwnerUserID == "" || provider.OwnerUserID != actor.UserID {
			return nil, ErrForbidden
		}
	}
	return s.ledger.ListProviderDay(ctx, providerID, timeutil.DateOnly(day))
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = 10
	case pageSize < 5:
		pageSize = 5
	case pageSize > 50:
		pageSize = 50
	}
	return page, pageSize
}
