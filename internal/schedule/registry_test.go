package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookora/bookora/internal/model"
)

type fakeStore struct {
	hours    map[string][]model.WorkingHours
	timeOff  map[string][]model.TimeOff
	replaces int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hours:   make(map[string][]model.WorkingHours),
		timeOff: make(map[string][]model.TimeOff),
	}
}

func (f *fakeStore) ListWorkingHours(_ context.Context, providerID string) ([]model.WorkingHours, error) {
	return f.hours[providerID], nil
}

func (f *fakeStore) ReplaceWorkingHours(_ context.Context, providerID string, items []model.WorkingHours) ([]model.WorkingHours, error) {
	f.replaces++
	f.hours[providerID] = items
	return items, nil
}

func (f *fakeStore) IsDayOff(_ context.Context, providerID string, date time.Time) (bool, error) {
	for _, t := range f.timeOff[providerID] {
		if !date.Before(t.FromDate) && !date.After(t.ToDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateTimeOff(_ context.Context, t model.TimeOff) (model.TimeOff, error) {
	t.ID = "to-1"
	f.timeOff[t.ProviderID] = append(f.timeOff[t.ProviderID], t)
	return t, nil
}

func (f *fakeStore) ListTimeOff(_ context.Context, providerID string) ([]model.TimeOff, error) {
	return f.timeOff[providerID], nil
}

func (f *fakeStore) DeleteTimeOff(_ context.Context, providerID, timeOffID string) error {
	return nil
}

func TestReplaceAllValid(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)

	items := []model.WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "13:00", EndTime: "18:00"},
		{Weekday: 6, StartTime: "10:00", EndTime: "14:00"},
	}
	got, err := reg.ReplaceAll(context.Background(), "p1", items)
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for _, wh := range got {
		if wh.ProviderID != "p1" {
			t.Errorf("row missing provider id: %+v", wh)
		}
	}
}

func TestReplaceAllRejectsBadItems(t *testing.T) {
	cases := []struct {
		name string
		item model.WorkingHours
	}{
		{"weekday zero", model.WorkingHours{Weekday: 0, StartTime: "09:00", EndTime: "12:00"}},
		{"weekday eight", model.WorkingHours{Weekday: 8, StartTime: "09:00", EndTime: "12:00"}},
		{"bad start", model.WorkingHours{Weekday: 2, StartTime: "9:00", EndTime: "12:00"}},
		{"bad end", model.WorkingHours{Weekday: 2, StartTime: "09:00", EndTime: "25:00"}},
		{"start equals end", model.WorkingHours{Weekday: 2, StartTime: "12:00", EndTime: "12:00"}},
		{"start after end", model.WorkingHours{Weekday: 2, StartTime: "18:00", EndTime: "09:00"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := newFakeStore()
			reg := NewRegistry(store)

			// One good row before the bad one: the whole replace must be rejected.
			items := []model.WorkingHours{
				{Weekday: 1, StartTime: "10:00", EndTime: "19:00"},
				c.item,
			}
			if _, err := reg.ReplaceAll(context.Background(), "p1", items); !errors.Is(err, ErrInvalidWorkingHours) {
				t.Fatalf("expected ErrInvalidWorkingHours, got %v", err)
			}
			if store.replaces != 0 {
				t.Fatal("store must not be touched when validation fails")
			}
		})
	}
}

func TestApplyDefault(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)

	got, err := reg.ApplyDefault(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ApplyDefault: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(got))
	}
	for i, wh := range got {
		if wh.Weekday != i+1 {
			t.Errorf("row %d weekday = %d, want %d", i, wh.Weekday, i+1)
		}
		if wh.StartTime != "10:00" || wh.EndTime != "19:00" {
			t.Errorf("row %d hours = %s-%s, want 10:00-19:00", i, wh.StartTime, wh.EndTime)
		}
	}
}

func TestAddTimeOffRejectsReversedRange(t *testing.T) {
	reg := NewRegistry(newFakeStore())

	from := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
	if _, err := reg.AddTimeOff(context.Background(), "p1", from, to); !errors.Is(err, ErrInvalidTimeOff) {
		t.Fatalf("expected ErrInvalidTimeOff, got %v", err)
	}
}

func TestIsDayOffInclusiveBounds(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)

	from := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	if _, err := reg.AddTimeOff(context.Background(), "p1", from, to); err != nil {
		t.Fatalf("AddTimeOff: %v", err)
	}

	cases := []struct {
		date string
		want bool
	}{
		{"2026-05-07", false},
		{"2026-05-08", true},
		{"2026-05-09", true},
		{"2026-05-10", true},
		{"2026-05-11", false},
	}
	for _, c := range cases {
		d, _ := time.Parse("2006-01-02", c.date)
		got, err := reg.IsDayOff(context.Background(), "p1", d)
		if err != nil {
			t.Fatalf("IsDayOff(%s): %v", c.date, err)
		}
		if got != c.want {
			t.Errorf("IsDayOff(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}
