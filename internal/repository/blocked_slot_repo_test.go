package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"charterbook/internal/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlockMock(t *testing.T) (*BlockedSlotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBlockedSlotRepository(db), mock
}

func TestBlockedSlotCreate(t *testing.T) {
	repo, mock := newBlockMock(t)
	mock.ExpectQuery(`INSERT INTO blocked_slots`).
		WithArgs(sqlmock.AnyArg(), "2025-07-10", "FULL", "engine service").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	b := &entities.BlockedSlot{Date: tripDate, SlotType: entities.SlotFull, Reason: "engine service"}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, createdAt, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockedSlotDelete_Idempotent(t *testing.T) {
	repo, mock := newBlockMock(t)
	mock.ExpectExec(`DELETE FROM blocked_slots`).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockedSlotList_OpenEndedRange(t *testing.T) {
	repo, mock := newBlockMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND date >= $1::date ORDER BY`)).
		WithArgs("2025-07-10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "slot_type", "reason", "created_at"}).
			AddRow("blk-1", time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), "PM", "", createdAt))

	got, err := repo.List(context.Background(), entities.DateRange{From: tripDate})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tripDate, got[0].Date)
	assert.Equal(t, entities.SlotPM, got[0].SlotType)
}
