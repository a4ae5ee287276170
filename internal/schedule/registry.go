// Package schedule manages a provider's recurring working hours and its
// time-off overrides.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/timeutil"
)

var (
	ErrInvalidWorkingHours = errors.New("invalid working hours")
	ErrInvalidTimeOff      = errors.New("invalid time off range")
	ErrTimeOffNotFound     = errors.New("time off not found")
)

// Default template applied by ApplyDefault: Mon-Fri 10:00-19:00.
const (
	defaultOpen  = "10:00"
	defaultClose = "19:00"
)

// Store is the persistence surface the registry runs on.
type Store interface {
	ListWorkingHours(ctx context.Context, providerID string) ([]model.WorkingHours, error)
	// ReplaceWorkingHours atomically deletes the provider's rows and inserts
	// items; no partial state may be observable.
	ReplaceWorkingHours(ctx context.Context, providerID string, items []model.WorkingHours) ([]model.WorkingHours, error)
	IsDayOff(ctx context.Context, providerID string, date time.Time) (bool, error)
	CreateTimeOff(ctx context.Context, t model.TimeOff) (model.TimeOff, error)
	ListTimeOff(ctx context.Context, providerID string) ([]model.TimeOff, error)
	DeleteTimeOff(ctx context.Context, providerID, timeOffID string) error
}

type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

func (r *Registry) List(ctx context.Context, providerID string) ([]model.WorkingHours, error) {
	return r.store.ListWorkingHours(ctx, providerID)
}

// ReplaceAll validates every item and replaces the provider's schedule in one
// shot. Validation happens before any write so a bad item leaves the stored
// schedule untouched.
func (r *Registry) ReplaceAll(ctx context.Context, providerID string, items []model.WorkingHours) ([]model.WorkingHours, error) {
	for i := range items {
		items[i].ProviderID = providerID
		if err := validate(items[i]); err != nil {
			return nil, err
		}
	}
	return r.store.ReplaceWorkingHours(ctx, providerID, items)
}

// ApplyDefault replaces the schedule with the Mon-Fri default template.
func (r *Registry) ApplyDefault(ctx context.Context, providerID string) ([]model.WorkingHours, error) {
	items := make([]model.WorkingHours, 0, 5)
	for wd := 1; wd <= 5; wd++ {
		items = append(items, model.WorkingHours{
			ProviderID: providerID,
			Weekday:    wd,
			StartTime:  defaultOpen,
			EndTime:    defaultClose,
		})
	}
	return r.store.ReplaceWorkingHours(ctx, providerID, items)
}

// IsDayOff reports whether any stored time-off range covers date. Ranges are
// inclusive on both ends and overlapping ranges act as a union.
func (r *Registry) IsDayOff(ctx context.Context, providerID string, date time.Time) (bool, error) {
	return r.store.IsDayOff(ctx, providerID, timeutil.DateOnly(date))
}

func (r *Registry) AddTimeOff(ctx context.Context, providerID string, from, to time.Time) (model.TimeOff, error) {
	from = timeutil.DateOnly(from)
	to = timeutil.DateOnly(to)
	if to.Before(from) {
		return model.TimeOff{}, ErrInvalidTimeOff
	}
	return r.store.CreateTimeOff(ctx, model.TimeOff{
		ProviderID: providerID,
		FromDate:   from,
		ToDate:     to,
	})
}

func (r *Registry) ListTimeOff(ctx context.Context, providerID string) ([]model.TimeOff, error) {
	return r.store.ListTimeOff(ctx, providerID)
}

func (r *Registry) RemoveTimeOff(ctx context.Context, providerID, timeOffID string) error {
	return r.store.DeleteTimeOff(ctx, providerID, timeOffID)
}

func validate(wh model.WorkingHours) error {
	if wh.Weekday < 1 || wh.Weekday > 7 {
		return fmt.Errorf("%w: weekday %d out of range 1..7", ErrInvalidWorkingHours, wh.Weekday)
	}
	sh, sm, err := timeutil.ParseHHMM(wh.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidWorkingHours, wh.StartTime)
	}
	eh, em, err := timeutil.ParseHHMM(wh.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidWorkingHours, wh.EndTime)
	}
	if sh*60+sm >= eh*60+em {
		return fmt.Errorf("%w: start %s not before end %s", ErrInvalidWorkingHours, wh.StartTime, wh.EndTime)
	}
	return nil
}
