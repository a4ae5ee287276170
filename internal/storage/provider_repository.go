package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/db"
	"github.com/bookora/bookora/internal/model"
)

// ProviderRepository is the read-through lookup for providers and services.
// Provider and service CRUD is owned by external admin tooling; the booking
// core only ever reads these tables.
type ProviderRepository struct {
	pool *db.Pool
}

func NewProviderRepository(pool *db.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

func (r *ProviderRepository) GetProvider(ctx context.Context, id string) (model.Provider, error) {
	var p model.Provider
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, COALESCE(address, ''), COALESCE(owner_user_id::text, '')
		FROM providers
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Address, &p.OwnerUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Provider{}, booking.ErrProviderNotFound
	}
	if err != nil {
		return model.Provider{}, err
	}
	return p, nil
}

func (r *ProviderRepository) GetService(ctx context.Context, id string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, provider_id::text, COALESCE(title, ''), duration_minutes, active
		FROM services
		WHERE id = $1
	`, id).Scan(&s.ID, &s.ProviderID, &s.Title, &s.DurationMinutes, &s.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Service{}, booking.ErrInvalidService
	}
	if err != nil {
		return model.Service{}, err
	}
	return s, nil
}
