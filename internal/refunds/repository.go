package refunds

import (
	"context"
	"errors"
	"time"

	"ticketcore/internal/events"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/tickets"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferFunc moves funds to a ticket owner. Repositories call it inside
// the transaction that records the refund, so the ledger state only commits
// when the transfer succeeded.
type TransferFunc func(owner uuid.UUID, amountAtomic int64) error

type Repository interface {
	GetEvent(ctx context.Context, eventID uint64) (*events.Event, error)
	GetTicket(ctx context.Context, tokenID uint64) (*tickets.Ticket, error)
	RefundableTickets(ctx context.Context, eventID uint64) ([]tickets.Ticket, error)

	// AutoRefundTicket refunds one NONE-status ticket. It returns false
	// without error when the ticket was already processed, which makes
	// batch re-runs idempotent.
	AutoRefundTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (bool, error)

	CreateRequest(ctx context.Context, eventID, tokenID uint64, buyer uuid.UUID, amountAtomic int64) (*RefundRequest, error)
	GetRequest(ctx context.Context, id uint64) (*RefundRequest, error)
	ApproveRequest(ctx context.Context, id uint64) (*RefundRequest, error)
	RejectRequest(ctx context.Context, id uint64, reason string) (*RefundRequest, error)
	ClaimTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]RefundRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEvent(ctx context.Context, eventID uint64) (*events.Event, error) {
	var event events.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetTicket(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
	var ticket tickets.Ticket
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) RefundableTickets(ctx context.Context, eventID uint64) ([]tickets.Ticket, error) {
	var refundable []tickets.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND refund_status = ?", eventID, tickets.RefundStatusNone).
		Order("token_id ASC").
		Find(&refundable).Error
	return refundable, err
}

func (r *repository) AutoRefundTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (bool, error) {
	processed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket tickets.Ticket
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ?", tokenID).
			First(&ticket).Error
		if err != nil {
			return err
		}

		// Already handled by an earlier run or a concurrent worker
		if ticket.RefundStatus != tickets.RefundStatusNone {
			return nil
		}

		if err := transfer(ticket.Owner, ticket.PriceAtomicPaid); err != nil {
			return err
		}

		err = tx.Model(&tickets.Ticket{}).
			Where("token_id = ?", tokenID).
			Updates(map[string]interface{}{
				"refund_status": tickets.RefundStatusRefunded,
				"updated_at":    time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		if err := creditRefunded(tx, ticket.EventID, ticket.PriceAtomicPaid); err != nil {
			return err
		}

		processed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return processed, nil
}

func (r *repository) CreateRequest(ctx context.Context, eventID, tokenID uint64, buyer uuid.UUID, amountAtomic int64) (*RefundRequest, error) {
	var created *RefundRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket tickets.Ticket
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ?", tokenID).
			First(&ticket).Error
		if err != nil {
			return err
		}

		if !ticket.RefundStatus.CanRequest() {
			return apperrors.InvalidState("ticket refund is already %s", ticket.RefundStatus)
		}

		request := &RefundRequest{
			EventID:       eventID,
			TicketTokenID: tokenID,
			Buyer:         buyer,
			AmountAtomic:  amountAtomic,
			Status:        RequestStatusRequested,
		}
		if err := tx.Create(request).Error; err != nil {
			return err
		}

		err = tx.Model(&tickets.Ticket{}).
			Where("token_id = ?", tokenID).
			Updates(map[string]interface{}{
				"refund_status": tickets.RefundStatusRequested,
				"updated_at":    time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		created = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetRequest(ctx context.Context, id uint64) (*RefundRequest, error) {
	var request RefundRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ApproveRequest(ctx context.Context, id uint64) (*RefundRequest, error) {
	var approved *RefundRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		if request.Status != RequestStatusRequested {
			return apperrors.InvalidState("refund request is %s, not REQUESTED", request.Status)
		}

		err = tx.Model(&RefundRequest{}).
			Where("id = ?", id).
			Update("status", RequestStatusApproved).Error
		if err != nil {
			return err
		}

		err = tx.Model(&tickets.Ticket{}).
			Where("token_id = ?", request.TicketTokenID).
			Updates(map[string]interface{}{
				"refund_status": tickets.RefundStatusApproved,
				"updated_at":    time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		request.Status = RequestStatusApproved
		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (r *repository) RejectRequest(ctx context.Context, id uint64, reason string) (*RefundRequest, error) {
	var rejected *RefundRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		if request.Status != RequestStatusRequested {
			return apperrors.InvalidState("refund request is %s, not REQUESTED", request.Status)
		}

		now := time.Now().UTC()
		err = tx.Model(&RefundRequest{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":           RequestStatusRejected,
				"rejection_reason": reason,
				"processed_at":     now,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&tickets.Ticket{}).
			Where("token_id = ?", request.TicketTokenID).
			Updates(map[string]interface{}{
				"refund_status": tickets.RefundStatusRejected,
				"updated_at":    now,
			}).Error
		if err != nil {
			return err
		}

		request.Status = RequestStatusRejected
		request.RejectionReason = reason
		request.ProcessedAt = &now
		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func (r *repository) ClaimTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error) {
	var claimed *tickets.Ticket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket tickets.Ticket
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ?", tokenID).
			First(&ticket).Error
		if err != nil {
			return err
		}

		if ticket.RefundStatus != tickets.RefundStatusApproved {
			return apperrors.InvalidState("ticket refund is %s, not APPROVED", ticket.RefundStatus)
		}

		if err := transfer(ticket.Owner, ticket.PriceAtomicPaid); err != nil {
			return err
		}

		now := time.Now().UTC()
		err = tx.Model(&tickets.Ticket{}).
			Where("token_id = ?", tokenID).
			Updates(map[string]interface{}{
				"refund_status": tickets.RefundStatusRefunded,
				"updated_at":    now,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&RefundRequest{}).
			Where("ticket_token_id = ? AND status = ?", tokenID, RequestStatusApproved).
			Updates(map[string]interface{}{
				"status":       RequestStatusRefunded,
				"processed_at": now,
			}).Error
		if err != nil {
			return err
		}

		if err := creditRefunded(tx, ticket.EventID, ticket.PriceAtomicPaid); err != nil {
			return err
		}

		ticket.RefundStatus = tickets.RefundStatusRefunded
		claimed = &ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uint64) ([]RefundRequest, error) {
	var requests []RefundRequest
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("requested_at ASC").
		Find(&requests).Error
	return requests, err
}

func lockRequest(tx *gorm.DB, id uint64) (*RefundRequest, error) {
	var request RefundRequest
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("refund request %d not found", id)
		}
		return nil, err
	}
	return &request, nil
}

func creditRefunded(tx *gorm.DB, eventID uint64, amountAtomic int64) error {
	return tx.Table("revenue_ledgers").
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"total_refunded": gorm.Expr("total_refunded + ?", amountAtomic),
			"updated_at":     time.Now().UTC(),
		}).Error
}
