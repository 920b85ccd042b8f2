package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tripDate  = civil.Date{Year: 2025, Month: time.July, Day: 10}
	createdAt = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
)

var bookingRowColumns = []string{"id", "date", "slot_type", "name", "phone", "email", "party_size", "notes", "status", "created_at"}

func newMock(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(db), mock
}

func slotRows(slots ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"slot_type"})
	for _, s := range slots {
		rows.AddRow(s)
	}
	return rows
}

func expectDateCheck(mock sqlmock.Sqlmock, bookings, blocks *sqlmock.Rows) {
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WithArgs("booking-date:2025-07-10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT slot_type FROM bookings`).WithArgs("2025-07-10").WillReturnRows(bookings)
	mock.ExpectQuery(`SELECT slot_type FROM blocked_slots`).WithArgs("2025-07-10").WillReturnRows(blocks)
}

func newBooking() *entities.Booking {
	return &entities.Booking{
		Date:      tripDate,
		SlotType:  entities.SlotAM,
		Name:      "Jane Doe",
		Phone:     "5551234567",
		Email:     "jane@example.com",
		PartySize: 4,
	}
}

func TestCreateIfAvailable_Inserts(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	expectDateCheck(mock, slotRows("PM"), slotRows())
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), "2025-07-10", "AM", "Jane Doe", "5551234567", "jane@example.com", 4, "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
	mock.ExpectCommit()

	b := newBooking()
	require.NoError(t, repo.CreateIfAvailable(context.Background(), b))
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, entities.StatusConfirmed, b.Status)
	assert.Equal(t, createdAt, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailable_SlotTaken(t *testing.T) {
	tests := []struct {
		name     string
		bookings *sqlmock.Rows
		blocks   *sqlmock.Rows
	}{
		{"same slot booked", slotRows("AM"), slotRows()},
		{"full day booked", slotRows("FULL"), slotRows()},
		{"slot blocked", slotRows(), slotRows("AM")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectBegin()
			expectDateCheck(mock, tt.bookings, tt.blocks)
			mock.ExpectRollback()

			err := repo.CreateIfAvailable(context.Background(), newBooking())
			assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateIfAvailable_UniqueViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	expectDateCheck(mock, slotRows(), slotRows())
	mock.ExpectQuery(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	b := newBooking()
	err := repo.CreateIfAvailable(context.Background(), b)
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	assert.Empty(t, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		"b-1", time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), "AM", "Jane Doe",
		"5551234567", "jane@example.com", 4, "", status, createdAt,
	)
}

func TestUpdateStatus_Cancel(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR UPDATE`).WithArgs("b-1").WillReturnRows(bookingRow("confirmed"))
	mock.ExpectExec(`UPDATE bookings SET status`).WithArgs("canceled", "b-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.UpdateStatus(context.Background(), "b-1", entities.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCanceled, b.Status)
	assert.Equal(t, tripDate, b.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_RestoreChecksAvailability(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR UPDATE`).WithArgs("b-1").WillReturnRows(bookingRow("canceled"))
	expectDateCheck(mock, slotRows("AM"), slotRows())
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "b-1", entities.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_RestoreOntoFreeSlot(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR UPDATE`).WithArgs("b-1").WillReturnRows(bookingRow("canceled"))
	expectDateCheck(mock, slotRows("PM"), slotRows())
	mock.ExpectExec(`UPDATE bookings SET status`).WithArgs("confirmed", "b-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.UpdateStatus(context.Background(), "b-1", entities.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR UPDATE`).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "missing", entities.StatusCanceled)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_UnknownIDSucceeds(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Filters(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND date = $1::date AND status = $2 ORDER BY date ASC, created_at DESC`)).
		WithArgs("2025-07-10", "canceled").
		WillReturnRows(bookingRow("canceled"))

	got, err := repo.List(context.Background(), entities.BookingFilter{Date: tripDate, Status: entities.StatusCanceled})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b-1", got[0].ID)
	assert.Equal(t, entities.StatusCanceled, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoFiltersReturnsEmptySlice(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 ORDER BY`)).WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	got, err := repo.List(context.Background(), entities.BookingFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListConfirmedSlots_Range(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = 'confirmed' AND date >= $1::date AND date <= $2::date`)).
		WithArgs("2025-07-01", "2025-07-31").
		WillReturnRows(sqlmock.NewRows([]string{"date", "slot_type"}).
			AddRow(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), "FULL"))

	got, err := repo.ListConfirmedSlots(context.Background(), entities.DateRange{
		From: civil.Date{Year: 2025, Month: time.July, Day: 1},
		To:   civil.Date{Year: 2025, Month: time.July, Day: 31},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.Booking{{Date: tripDate, SlotType: entities.SlotFull, Status: entities.StatusConfirmed}}, got)
}
