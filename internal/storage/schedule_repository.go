package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bookora/bookora/internal/db"
	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/schedule"
)

// ScheduleRepository persists working hours and time-off rows.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) ListWorkingHours(ctx context.Context, providerID string) ([]model.WorkingHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, provider_id::text, weekday, start_time, end_time
		FROM working_hours
		WHERE provider_id = $1
		ORDER BY weekday ASC, start_time ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkingHours(rows)
}

func (r *ScheduleRepository) ListWorkingHoursByWeekday(ctx context.Context, providerID string, weekday int) ([]model.WorkingHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, provider_id::text, weekday, start_time, end_time
		FROM working_hours
		WHERE provider_id = $1 AND weekday = $2
		ORDER BY start_time ASC
	`, providerID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkingHours(rows)
}

// ReplaceWorkingHours deletes the provider's schedule and inserts items in
// one transaction, so readers never observe a partial replacement.
func (r *ScheduleRepository) ReplaceWorkingHours(ctx context.Context, providerID string, items []model.WorkingHours) ([]model.WorkingHours, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM working_hours WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO working_hours (id, provider_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), providerID, it.Weekday, it.StartTime, it.EndTime); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.ListWorkingHours(ctx, providerID)
}

// IsDayOff reports whether any time-off range covers date (inclusive bounds,
// date-only precision).
func (r *ScheduleRepository) IsDayOff(ctx context.Context, providerID string, date time.Time) (bool, error) {
	var off bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM time_off
			WHERE provider_id = $1 AND from_date <= $2::date AND to_date >= $2::date
		)
	`, providerID, date).Scan(&off)
	return off, err
}

func (r *ScheduleRepository) CreateTimeOff(ctx context.Context, t model.TimeOff) (model.TimeOff, error) {
	t.ID = uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO time_off (id, provider_id, from_date, to_date)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.ProviderID, t.FromDate, t.ToDate)
	if err != nil {
		return model.TimeOff{}, err
	}
	return t, nil
}

func (r *ScheduleRepository) ListTimeOff(ctx context.Context, providerID string) ([]model.TimeOff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, provider_id::text, from_date, to_date
		FROM time_off
		WHERE provider_id = $1
		ORDER BY from_date ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeOff
	for rows.Next() {
		var t model.TimeOff
		if err := rows.Scan(&t.ID, &t.ProviderID, &t.FromDate, &t.ToDate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ScheduleRepository) DeleteTimeOff(ctx context.Context, providerID, timeOffID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM time_off
		WHERE id = $1 AND provider_id = $2
	`, timeOffID, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrTimeOffNotFound
	}
	return nil
}

func scanWorkingHours(rows pgx.Rows) ([]model.WorkingHours, error) {
	var out []model.WorkingHours
	for rows.Next() {
		var wh model.WorkingHours
		if err := rows.Scan(&wh.ID, &wh.ProviderID, &wh.Weekday, &wh.StartTime, &wh.EndTime); err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}
