package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type BlockedSlotRepository struct {
	DB *sql.DB
}

func NewBlockedSlotRepository(db *sql.DB) *BlockedSlotRepository {
	return &BlockedSlotRepository{DB: db}
}

// Create stores a block. Existing bookings on the slot are left alone.
func (r *BlockedSlotRepository) Create(ctx context.Context, b *entities.BlockedSlot) error {
	id := uuid.NewString()
	query := `
	INSERT INTO blocked_slots (id, date, slot_type, reason)
	VALUES ($1, $2::date, $3, NULLIF($4, ''))
	RETURNING created_at`
	if err := r.DB.QueryRowContext(ctx, query, id, b.Date.String(), string(b.SlotType), b.Reason).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("insert blocked slot: %w", err)
	}
	b.ID = id
	return nil
}

// Delete removes a block. Unknown ids are not an error.
func (r *BlockedSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM blocked_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete blocked slot: %w", err)
	}
	return nil
}

func (r *BlockedSlotRepository) List(ctx context.Context, rng entities.DateRange) ([]entities.BlockedSlot, error) {
	query := `SELECT id, date, slot_type, COALESCE(reason, ''), created_at FROM blocked_slots WHERE 1=1`
	clause, args := rangeClause(rng, 1)
	query += clause + " ORDER BY date ASC, slot_type ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blocked slots: %w", err)
	}
	defer rows.Close()

	blocks := []entities.BlockedSlot{}
	for rows.Next() {
		var (
			b    entities.BlockedSlot
			date time.Time
		)
		if err := rows.Scan(&b.ID, &date, &b.SlotType, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked slot: %w", err)
		}
		b.Date = civil.DateOf(date)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked slots: %w", err)
	}
	return blocks, nil
}
