package model

// Provider is a bookable business. Provider CRUD lives outside the booking
// core; we only read providers to validate bookings and resolve ownership.
type Provider struct {
	ID          string
	Name        string
	Address     string
	OwnerUserID string // empty when the provider has no owning user
}

// Service is an offering of a provider. The core reads DurationMinutes to
// size slots; service management is external.
type Service struct {
	ID              string
	ProviderID      string
	Title           string
	DurationMinutes int
	Active          bool
}
