// Package availability turns a provider's working hours, time off, and
// existing bookings into the ordered list of bookable start times for a day.
package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/timeutil"
)

const (
	// DefaultStepMinutes is used when no service is given.
	DefaultStepMinutes = 30
	// MinStepMinutes floors the step so degenerate service durations cannot
	// produce a zero-length or runaway slot stream.
	MinStepMinutes = 15
)

type ScheduleSource interface {
	IsDayOff(ctx context.Context, providerID string, date time.Time) (bool, error)
	ListWorkingHoursByWeekday(ctx context.Context, providerID string, weekday int) ([]model.WorkingHours, error)
}

type LedgerSource interface {
	// BookedStarts returns start times of non-cancelled appointments for the
	// provider within [from, to).
	BookedStarts(ctx context.Context, providerID string, from, to time.Time) ([]time.Time, error)
}

type ServiceSource interface {
	GetService(ctx context.Context, serviceID string) (model.Service, error)
}

type Generator struct {
	schedule ScheduleSource
	ledger   LedgerSource
	services ServiceSource
}

func NewGenerator(schedule ScheduleSource, ledger LedgerSource, services ServiceSource) *Generator {
	return &Generator{schedule: schedule, ledger: ledger, services: services}
}

// Slots returns the bookable start times for the provider on date, ascending
// and deduplicated. serviceID is optional; when given and resolvable, the
// service duration sets the step, floored at MinStepMinutes.
//
// Taken slots are filtered by exact start-time match only. The authoritative
// interval-overlap check runs at booking time; a slot offered here can still
// be rejected there when a longer booking covers it. Known gap, kept
// deliberately so generation stays a cheap single-day scan.
func (g *Generator) Slots(ctx context.Context, providerID string, date time.Time, serviceID string) ([]time.Time, error) {
	date = timeutil.DateOnly(date)

	off, err := g.schedule.IsDayOff(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("check day off: %w", err)
	}
	if off {
		return []time.Time{}, nil
	}

	rows, err := g.schedule.ListWorkingHoursByWeekday(ctx, providerID, timeutil.Weekday(date))
	if err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	if len(rows) == 0 {
		return []time.Time{}, nil
	}

	step := g.resolveStep(ctx, serviceID)

	dayEnd := date.AddDate(0, 0, 1)
	starts, err := g.ledger.BookedStarts(ctx, providerID, date, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list booked starts: %w", err)
	}
	busy := make(map[time.Time]struct{}, len(starts))
	for _, s := range starts {
		busy[s.UTC()] = struct{}{}
	}

	seen := make(map[time.Time]struct{})
	slots := make([]time.Time, 0, 16)
	for _, row := range rows {
		sh, sm, err := timeutil.ParseHHMM(row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("working hours row %s: %w", row.ID, err)
		}
		eh, em, err := timeutil.ParseHHMM(row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("working hours row %s: %w", row.ID, err)
		}
		end := timeutil.Combine(date, eh, em)
		for t := timeutil.Combine(date, sh, sm); !t.Add(step).After(end); t = t.Add(step) {
			if _, taken := busy[t]; taken {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			slots = append(slots, t)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots, nil
}

// resolveStep picks the slot step for an optional service. An unresolvable
// service falls back to the default rather than failing the whole request.
func (g *Generator) resolveStep(ctx context.Context, serviceID string) time.Duration {
	if serviceID == "" {
		return DefaultStepMinutes * time.Minute
	}
	svc, err := g.services.GetService(ctx, serviceID)
	if err != nil || svc.DurationMinutes <= 0 {
		return DefaultStepMinutes * time.Minute
	}
	mins := svc.DurationMinutes
	if mins < MinStepMinutes {
		mins = MinStepMinutes
	}
	return time.Duration(mins) * time.Minute
}
