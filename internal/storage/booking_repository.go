package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/db"
	"github.com/bookora/bookora/internal/model"
	"github.com/bookora/bookora/internal/outbox"
)

const appointmentColumns = `
	id::text, user_id::text, provider_id::text, COALESCE(service_id::text, ''),
	start_at, end_at, status, final_price, created_at`

// BookingRepository is the appointment ledger. Create runs the conflict
// check and insert as one critical section serialized per provider via an
// advisory transaction lock; a gist exclusion constraint on
// (provider_id, [start_at,end_at)) backs it up at the schema level.
type BookingRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewBookingRepository(pool *db.Pool, outboxRepo *outbox.Repository) *BookingRepository {
	return &BookingRepository{pool: pool, outbox: outboxRepo}
}

func (r *BookingRepository) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize concurrent creates for the same provider. The lock is held
	// until commit/rollback, covering the overlap check below.
	if _, err := tx.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtextextended('appointments:' || $1::text, 0))
	`, appt.ProviderID); err != nil {
		return model.Appointment{}, translateErr(err)
	}

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1
				AND status <> 'CANCELLED'
				AND start_at < $3
				AND end_at > $2
		)
	`, appt.ProviderID, appt.StartAt, appt.EndAt).Scan(&conflict)
	if err != nil {
		return model.Appointment{}, translateErr(err)
	}
	if conflict {
		return model.Appointment{}, booking.ErrSlotConflict
	}

	var created model.Appointment
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (user_id, provider_id, service_id, start_at, end_at, status)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
		RETURNING `+appointmentColumns+`
	`, appt.UserID, appt.ProviderID, appt.ServiceID, appt.StartAt, appt.EndAt, appt.Status).
		Scan(scanTargets(&created)...)
	if err != nil {
		return model.Appointment{}, translateErr(err)
	}

	if err := r.insertEvent(ctx, tx, outbox.EventAppointmentBooked, created); err != nil {
		return model.Appointment{}, translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, translateErr(err)
	}
	return created, nil
}

func (r *BookingRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	var appt model.Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id).Scan(scanTargets(&appt)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, booking.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func (r *BookingRepository) SetStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var appt model.Appointment
	err = tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status).Scan(scanTargets(&appt)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, booking.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, translateErr(err)
	}

	eventType := outbox.EventAppointmentConfirmed
	if status == model.StatusCancelled {
		eventType = outbox.EventAppointmentCancelled
	}
	if err := r.insertEvent(ctx, tx, eventType, appt); err != nil {
		return model.Appointment{}, translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, translateErr(err)
	}
	return appt, nil
}

// BookedStarts returns start times of non-cancelled appointments within
// [from, to), feeding the slot generator's exact-start filter.
func (r *BookingRepository) BookedStarts(ctx context.Context, providerID string, from, to time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_at
		FROM appointments
		WHERE provider_id = $1
			AND status <> 'CANCELLED'
			AND start_at >= $2
			AND start_at < $3
	`, providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		starts = append(starts, t)
	}
	return starts, rows.Err()
}

func (r *BookingRepository) List(ctx context.Context, f booking.ListFilter) ([]model.Appointment, int, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.UserID != "" {
		where = append(where, "user_id = "+arg(f.UserID))
	}
	if f.ProviderID != "" {
		where = append(where, "provider_id = "+arg(f.ProviderID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if !f.From.IsZero() {
		where = append(where, "start_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "start_at < "+arg(f.To))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "ASC"
	if f.SortDesc {
		order = "DESC"
	}
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE ` + cond + `
		ORDER BY start_at ` + order + `
		LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appts, err := scanAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *BookingRepository) ListProviderDay(ctx context.Context, providerID string, day time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
			AND status <> 'CANCELLED'
			AND start_at >= $2
			AND start_at < $3
		ORDER BY start_at ASC
	`, providerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *BookingRepository) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"provider_id":    appt.ProviderID,
		"user_id":        appt.UserID,
		"service_id":     appt.ServiceID,
		"start_at":       appt.StartAt.UTC().Format(time.RFC3339),
		"end_at":         appt.EndAt.UTC().Format(time.RFC3339),
		"status":         appt.Status,
	})
	if err != nil {
		return err
	}
	return r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}

func scanTargets(appt *model.Appointment) []any {
	return []any{
		&appt.ID,
		&appt.UserID,
		&appt.ProviderID,
		&appt.ServiceID,
		&appt.StartAt,
		&appt.EndAt,
		&appt.Status,
		&appt.FinalPrice,
		&appt.CreatedAt,
	}
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		if err := rows.Scan(scanTargets(&appt)...); err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

// translateErr maps store-level failures onto the booking taxonomy:
// exclusion or unique violations are slot conflicts, serialization failures
// and deadlocks are transient contention the policy may retry.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01", "23505":
			return booking.ErrSlotConflict
		case "40001", "40P01":
			return booking.ErrTxContention
		}
	}
	return err
}
