package availability

import (
	"context"
	"testing"
	"time"

	"github.com/bookora/bookora/internal/model"
)

type fakeSchedule struct {
	dayOff bool
	rows   []model.WorkingHours
}

func (f *fakeSchedule) IsDayOff(context.Context, string, time.Time) (bool, error) {
	return f.dayOff, nil
}

func (f *fakeSchedule) ListWorkingHoursByWeekday(_ context.Context, _ string, weekday int) ([]model.WorkingHours, error) {
	var out []model.WorkingHours
	for _, r := range f.rows {
		if r.Weekday == weekday {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLedger struct {
	starts []time.Time
}

func (f *fakeLedger) BookedStarts(context.Context, string, time.Time, time.Time) ([]time.Time, error) {
	return f.starts, nil
}

type fakeServices struct {
	byID map[string]model.Service
}

func (f *fakeServices) GetService(_ context.Context, id string) (model.Service, error) {
	if svc, ok := f.byID[id]; ok {
		return svc, nil
	}
	return model.Service{}, context.Canceled // any error: generator must fall back
}

// monday is a known Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newGenerator(sched *fakeSchedule, ledger *fakeLedger, svcs *fakeServices) *Generator {
	if svcs == nil {
		svcs = &fakeServices{}
	}
	return NewGenerator(sched, ledger, svcs)
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestSlotsMondayMorning(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{ID: "wh1", ProviderID: "p1", Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
	}}
	svcs := &fakeServices{byID: map[string]model.Service{
		"s30": {ID: "s30", ProviderID: "p1", DurationMinutes: 30},
	}}
	g := newGenerator(sched, &fakeLedger{}, svcs)

	slots, err := g.Slots(context.Background(), "p1", monday, "s30")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	want := []time.Time{at(9, 0), at(9, 30), at(10, 0), at(10, 30), at(11, 0), at(11, 30)}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d (%v)", len(want), len(slots), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Errorf("slot[%d] = %s, want %s", i, slots[i], want[i])
		}
	}
}

func TestSlotsExcludesBookedStart(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
	}}
	ledger := &fakeLedger{starts: []time.Time{at(10, 0)}}
	svcs := &fakeServices{byID: map[string]model.Service{
		"s30": {ID: "s30", DurationMinutes: 30},
	}}
	g := newGenerator(sched, ledger, svcs)

	slots, err := g.Slots(context.Background(), "p1", monday, "s30")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Equal(at(10, 0)) {
			t.Fatal("10:00 should be excluded")
		}
	}
}

func TestSlotsDayOffWins(t *testing.T) {
	sched := &fakeSchedule{
		dayOff: true,
		rows: []model.WorkingHours{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
		},
	}
	g := newGenerator(sched, &fakeLedger{}, nil)

	slots, err := g.Slots(context.Background(), "p1", monday, "")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("day off must yield no slots, got %d", len(slots))
	}
}

func TestSlotsNoRowsForWeekday(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 2, StartTime: "09:00", EndTime: "18:00"}, // Tuesday only
	}}
	g := newGenerator(sched, &fakeLedger{}, nil)

	slots, err := g.Slots(context.Background(), "p1", monday, "")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestSlotsRowShorterThanStep(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "09:20"},
	}}
	g := newGenerator(sched, &fakeLedger{}, nil)

	slots, err := g.Slots(context.Background(), "p1", monday, "")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("20-minute row with 30-minute step must yield nothing, got %d", len(slots))
	}
}

func TestSlotsServiceDurationFloor(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "10:00"},
	}}
	svcs := &fakeServices{byID: map[string]model.Service{
		"s5": {ID: "s5", DurationMinutes: 5},
	}}
	g := newGenerator(sched, &fakeLedger{}, svcs)

	slots, err := g.Slots(context.Background(), "p1", monday, "s5")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	// Step floored to 15m: 09:00, 09:15, 09:30, 09:45.
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots with 15-minute floor, got %d", len(slots))
	}
}

func TestSlotsUnknownServiceUsesDefault(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "10:00"},
	}}
	g := newGenerator(sched, &fakeLedger{}, &fakeServices{})

	slots, err := g.Slots(context.Background(), "p1", monday, "missing")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 2 { // default 30-minute step
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestSlotsOverlappingRowsDeduplicated(t *testing.T) {
	sched := &fakeSchedule{rows: []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "11:00"},
		{Weekday: 1, StartTime: "10:00", EndTime: "12:00"},
	}}
	g := newGenerator(sched, &fakeLedger{}, nil)

	slots, err := g.Slots(context.Background(), "p1", monday, "")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	// Union 09:00-12:00 at 30m: 09:00..11:30, each exactly once.
	if len(slots) != 6 {
		t.Fatalf("expected 6 deduplicated slots, got %d (%v)", len(slots), slots)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Before(slots[i]) {
			t.Fatalf("slots not strictly ascending: %v", slots)
		}
	}
}
