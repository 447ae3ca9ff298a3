package events

import (
	"context"
	"errors"
	"time"

	"ticketcore/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uint64) (*Event, error)
	List(ctx context.Context, offset, limit int) ([]Event, int64, error)

	// MarkCancelled transitions ACTIVE -> CANCELLED under a row lock,
	// enforcing ownership and rejecting double-cancellation.
	MarkCancelled(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error)

	// UpdateStatus transitions ACTIVE -> POSTPONED/COMPLETED under a row lock
	UpdateStatus(ctx context.Context, id uint64, caller uuid.UUID, next EventStatus) (*Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts the event and its revenue ledger row in one transaction,
// so every event has a ledger from birth.
func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		ledger := map[string]interface{}{
			"event_id":        event.ID,
			"gross_received":  0,
			"total_refunded":  0,
			"total_withdrawn": 0,
			"created_at":      time.Now().UTC(),
			"updated_at":      time.Now().UTC(),
		}
		return tx.Table("revenue_ledgers").Create(ledger).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uint64) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, offset, limit int) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).Model(&Event{}).Where("id > 0")

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, totalCount, nil
}

func (r *repository) MarkCancelled(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
	var cancelled *Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("event %d not found", id)
			}
			return err
		}

		if event.Owner != caller {
			return apperrors.Authorization("only the event owner can cancel")
		}
		if !event.Status.CanTransitionTo(EventStatusCancelled) {
			return apperrors.InvalidState("event is already %s", event.Status)
		}

		updates := map[string]interface{}{
			"status":      EventStatusCancelled,
			"refund_mode": mode,
			"updated_at":  time.Now().UTC(),
		}
		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return err
		}

		event.Status = EventStatusCancelled
		event.RefundMode = mode
		cancelled = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uint64, caller uuid.UUID, next EventStatus) (*Event, error) {
	var updated *Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("event %d not found", id)
			}
			return err
		}

		if event.Owner != caller {
			return apperrors.Authorization("only the event owner can update status")
		}
		if !event.Status.CanTransitionTo(next) {
			return apperrors.InvalidState("cannot move event from %s to %s", event.Status, next)
		}

		updates := map[string]interface{}{
			"status":     next,
			"updated_at": time.Now().UTC(),
		}
		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return err
		}

		event.Status = next
		updated = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
