package model

import "time"

// WorkingHours is one recurring weekly open interval for a provider.
// Weekday uses ISO numbering (1=Monday .. 7=Sunday); StartTime and EndTime
// are wall-clock "HH:MM" strings with StartTime < EndTime.
type WorkingHours struct {
	ID         string
	ProviderID string
	Weekday    int
	StartTime  string
	EndTime    string
}

// TimeOff closes a provider for an inclusive date range. Time-of-day on the
// bounds is ignored; any range covering a date makes the whole day
// unavailable regardless of working hours.
type TimeOff struct {
	ID         string
	ProviderID string
	FromDate   time.Time
	ToDate     time.Time
}
