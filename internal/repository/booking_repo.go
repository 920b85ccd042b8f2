package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"charterbook/internal/availability"
	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const bookingColumns = `id, date, slot_type, name, phone, email, party_size, COALESCE(notes, ''), status, created_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (entities.Booking, error) {
	var (
		b    entities.Booking
		date time.Time
	)
	err := row.Scan(&b.ID, &date, &b.SlotType, &b.Name, &b.Phone, &b.Email, &b.PartySize, &b.Notes, &b.Status, &b.CreatedAt)
	if err != nil {
		return b, err
	}
	b.Date = civil.DateOf(date)
	return b, nil
}

// CreateIfAvailable inserts b as a confirmed booking when its slot is still
// open. The date is locked for the duration of the transaction so concurrent
// submissions for the same day are serialized. ID, Status and CreatedAt are
// filled in on success.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *entities.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockDate(ctx, tx, b.Date); err != nil {
		return err
	}
	avail, err := availabilityForDate(ctx, tx, b.Date)
	if err != nil {
		return err
	}
	if !avail.Available(b.SlotType) {
		return apperrors.ErrSlotUnavailable
	}

	id := uuid.NewString()
	query := `
	INSERT INTO bookings (id, date, slot_type, name, phone, email, party_size, notes, status)
	VALUES ($1, $2::date, $3, $4, $5, $6, $7, NULLIF($8, ''), 'confirmed')
	RETURNING created_at`
	err = tx.QueryRowContext(ctx, query,
		id, b.Date.String(), string(b.SlotType), b.Name, b.Phone, b.Email, b.PartySize, b.Notes,
	).Scan(&b.CreatedAt)
	if err != nil {
		return mapWriteError("insert booking", err)
	}

	if err := tx.Commit(); err != nil {
		return mapWriteError("commit booking", err)
	}
	b.ID = id
	b.Status = entities.StatusConfirmed
	return nil
}

// UpdateStatus moves a booking between confirmed and canceled. Restoring a
// canceled booking re-checks its slot under the same date lock as creation.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if current.Status == status {
		return &current, nil
	}

	if status == entities.StatusConfirmed {
		if err := lockDate(ctx, tx, current.Date); err != nil {
			return nil, err
		}
		avail, err := availabilityForDate(ctx, tx, current.Date)
		if err != nil {
			return nil, err
		}
		if !avail.Available(current.SlotType) {
			return nil, apperrors.ErrSlotUnavailable
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id); err != nil {
		return nil, mapWriteError("update booking status", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapWriteError("commit booking status", err)
	}
	current.Status = status
	return &current, nil
}

// Delete removes a booking in any state. Unknown ids are not an error.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter entities.BookingFilter) ([]entities.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Date != (civil.Date{}) {
		query += " AND date = $" + strconv.Itoa(idx) + "::date"
		args = append(args, filter.Date.String())
		idx++
	}
	if filter.Status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, string(filter.Status))
		idx++
	}
	query += " ORDER BY date ASC, created_at DESC"

	return r.queryBookings(ctx, query, args...)
}

// ListUpcoming returns the confirmed bookings between from and to inclusive,
// in trip order.
func (r *BookingRepository) ListUpcoming(ctx context.Context, from, to civil.Date) ([]entities.Booking, error) {
	query := `
	SELECT ` + bookingColumns + `
	FROM bookings
	WHERE status = 'confirmed' AND date BETWEEN $1::date AND $2::date
	ORDER BY date ASC, slot_type ASC`
	return r.queryBookings(ctx, query, from.String(), to.String())
}

// ListConfirmedSlots returns the confirmed bookings in rng carrying only the
// fields availability needs.
func (r *BookingRepository) ListConfirmedSlots(ctx context.Context, rng entities.DateRange) ([]entities.Booking, error) {
	query := `SELECT date, slot_type FROM bookings WHERE status = 'confirmed'`
	clause, args := rangeClause(rng, 1)
	query += clause + " ORDER BY date"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query confirmed slots: %w", err)
	}
	defer rows.Close()

	var bookings []entities.Booking
	for rows.Next() {
		var (
			date time.Time
			slot entities.SlotType
		)
		if err := rows.Scan(&date, &slot); err != nil {
			return nil, fmt.Errorf("scan confirmed slot: %w", err)
		}
		bookings = append(bookings, entities.Booking{
			Date:     civil.DateOf(date),
			SlotType: slot,
			Status:   entities.StatusConfirmed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confirmed slots: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]entities.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []entities.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// lockDate takes a transaction-scoped advisory lock for one calendar day.
func lockDate(ctx context.Context, tx *sql.Tx, date civil.Date) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "booking-date:"+date.String()); err != nil {
		return fmt.Errorf("lock date %s: %w", date, err)
	}
	return nil
}

// availabilityForDate re-reads the confirmed bookings and blocks of date
// inside tx and resolves them.
func availabilityForDate(ctx context.Context, tx *sql.Tx, date civil.Date) (entities.SlotAvailability, error) {
	var snap availability.Snapshot

	slots, err := querySlotTypes(ctx, tx, `SELECT slot_type FROM bookings WHERE date = $1::date AND status = 'confirmed'`, date)
	if err != nil {
		return entities.SlotAvailability{}, fmt.Errorf("read bookings for %s: %w", date, err)
	}
	for _, s := range slots {
		snap.Bookings = append(snap.Bookings, entities.Booking{Date: date, SlotType: s, Status: entities.StatusConfirmed})
	}

	slots, err = querySlotTypes(ctx, tx, `SELECT slot_type FROM blocked_slots WHERE date = $1::date`, date)
	if err != nil {
		return entities.SlotAvailability{}, fmt.Errorf("read blocks for %s: %w", date, err)
	}
	for _, s := range slots {
		snap.Blocks = append(snap.Blocks, entities.BlockedSlot{Date: date, SlotType: s})
	}

	return availability.ResolveDate(snap, date), nil
}

func querySlotTypes(ctx context.Context, tx *sql.Tx, query string, date civil.Date) ([]entities.SlotType, error) {
	rows, err := tx.QueryContext(ctx, query, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []entities.SlotType
	for rows.Next() {
		var s entities.SlotType
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// rangeClause appends date bounds starting at placeholder $idx.
func rangeClause(rng entities.DateRange, idx int) (string, []any) {
	var (
		clause string
		args   []any
	)
	if rng.From != (civil.Date{}) {
		clause += " AND date >= $" + strconv.Itoa(idx) + "::date"
		args = append(args, rng.From.String())
		idx++
	}
	if rng.To != (civil.Date{}) {
		clause += " AND date <= $" + strconv.Itoa(idx) + "::date"
		args = append(args, rng.To.String())
	}
	return clause, args
}

const uniqueViolation = "23505"

// mapWriteError turns a violation of the confirmed-slot unique index into
// ErrSlotUnavailable.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.ErrSlotUnavailable
	}
	return fmt.Errorf("%s: %w", op, err)
}
