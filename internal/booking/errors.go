package booking

import "errors"

// Booking outcomes callers are expected to branch on. Handlers map these to
// stable machine-readable codes; none of them is fatal to the process.
var (
	ErrInvalidRange        = errors.New("end must be after start")
	ErrPastBooking         = errors.New("start is in the past")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrSelfBooking         = errors.New("cannot book own provider")
	ErrInvalidService      = errors.New("service missing or not owned by provider")
	ErrOutsideWorkingHours = errors.New("outside provider working hours")
	ErrProviderTimeOff     = errors.New("provider is on time off")
	ErrSlotConflict        = errors.New("slot already booked")
	ErrNotFound            = errors.New("appointment not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")

	// ErrBookingFailed is surfaced when repeated transaction contention
	// exhausted the retry budget without a definite conflict.
	ErrBookingFailed = errors.New("booking failed, try again")

	// ErrTxContention marks a transient store-level abort (serialization
	// failure, deadlock). The policy retries these a bounded number of times;
	// it never reaches callers.
	ErrTxContention = errors.New("transaction contention")
)
