package seats

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the read side of the taken-seat set. Claims are written
// only inside the ticket mint transaction, never through this interface.
type Repository interface {
	IsSeatTaken(ctx context.Context, eventID uint64, seat string) (bool, error)
	TakenSeats(ctx context.Context, eventID uint64) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) IsSeatTaken(ctx context.Context, eventID uint64, seat string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SeatClaim{}).
		Where("event_id = ? AND seat = ?", eventID, seat).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TakenSeats(ctx context.Context, eventID uint64) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Model(&SeatClaim{}).
		Where("event_id = ?", eventID).
		Pluck("seat", &seats).Error
	return seats, err
}
