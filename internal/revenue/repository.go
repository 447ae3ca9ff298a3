package revenue

import (
	"context"
	"errors"
	"time"

	"ticketcore/internal/events"
	"ticketcore/internal/refunds"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/tickets"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByEventID(ctx context.Context, eventID uint64) (*Ledger, error)
	GetEvent(ctx context.Context, eventID uint64) (*events.Event, error)

	// RefundReserve sums the amounts still owed to buyers: approved but
	// unclaimed refund requests, plus tickets of a cancelled auto-refund
	// event whose refund has not been processed yet. That money is held
	// back from withdrawal.
	RefundReserve(ctx context.Context, eventID uint64) (int64, error)

	// Withdraw pays out the full withdrawable balance under a row lock.
	// The watermark only moves when the transfer succeeded; concurrent
	// callers serialize on the lock and the loser sees a zero balance.
	Withdraw(ctx context.Context, eventID uint64, transfer func(amountAtomic int64) error) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEventID(ctx context.Context, eventID uint64) (*Ledger, error) {
	var ledger Ledger
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&ledger).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *repository) GetEvent(ctx context.Context, eventID uint64) (*events.Event, error) {
	var event events.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) RefundReserve(ctx context.Context, eventID uint64) (int64, error) {
	return refundReserve(r.db.WithContext(ctx), eventID)
}

func (r *repository) Withdraw(ctx context.Context, eventID uint64, transfer func(amountAtomic int64) error) (int64, error) {
	var amount int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ledger Ledger
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ?", eventID).
			First(&ledger).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("no revenue ledger for event %d", eventID)
			}
			return err
		}

		reserve, err := refundReserve(tx, eventID)
		if err != nil {
			return err
		}

		withdrawable := ledger.Withdrawable() - reserve
		if withdrawable <= 0 {
			return apperrors.NoFunds("no new funds available")
		}

		if err := transfer(withdrawable); err != nil {
			return err
		}

		err = tx.Model(&Ledger{}).
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"total_withdrawn": gorm.Expr("total_withdrawn + ?", withdrawable),
				"updated_at":      time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		amount = withdrawable
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func refundReserve(tx *gorm.DB, eventID uint64) (int64, error) {
	var reserve int64
	err := tx.Model(&refunds.RefundRequest{}).
		Where("event_id = ? AND status = ?", eventID, refunds.RequestStatusApproved).
		Select("COALESCE(SUM(amount_atomic), 0)").
		Scan(&reserve).Error
	if err != nil {
		return 0, err
	}

	var event events.Event
	if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
		return 0, err
	}

	// A cancelled auto-refund event owes every not-yet-processed ticket
	// its full price; the reconcile run will credit those amounts, so
	// they must not be withdrawable in the meantime.
	if event.Status == events.EventStatusCancelled && event.RefundMode == events.RefundModeAuto {
		var pending int64
		err := tx.Model(&tickets.Ticket{}).
			Where("event_id = ? AND refund_status = ?", eventID, tickets.RefundStatusNone).
			Select("COALESCE(SUM(price_atomic_paid), 0)").
			Scan(&pending).Error
		if err != nil {
			return 0, err
		}
		reserve += pending
	}

	return reserve, nil
}
