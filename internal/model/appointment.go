package model

import "time"

// Status is the appointment lifecycle state. Transitions are
// BOOKED -> CONFIRMED, BOOKED -> CANCELLED, CONFIRMED -> CANCELLED;
// CANCELLED is terminal.
type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusBooked:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

type Appointment struct {
	ID         string
	UserID     string
	ProviderID string
	ServiceID  string // empty when booked without a service
	StartAt    time.Time
	EndAt      time.Time
	Status     Status
	FinalPrice *float64
	CreatedAt  time.Time
}
