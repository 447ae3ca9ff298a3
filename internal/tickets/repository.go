package tickets

import (
	"context"
	"errors"
	"time"

	"ticketcore/internal/events"
	"ticketcore/internal/seats"
	"ticketcore/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// MintTicket applies the four mint effects in one transaction: seat
	// claim, ticket row, remaining-count decrement, revenue credit.
	MintTicket(ctx context.Context, eventID uint64, buyer uuid.UUID, seat string, paymentAtomic int64) (*Ticket, error)

	GetByTokenID(ctx context.Context, tokenID uint64) (*Ticket, error)
	GetUserTickets(ctx context.Context, owner uuid.UUID) ([]Ticket, error)
	GetEvent(ctx context.Context, eventID uint64) (*events.Event, error)
	GetEventTickets(ctx context.Context, eventID uint64) ([]Ticket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MintTicket(ctx context.Context, eventID uint64, buyer uuid.UUID, seat string, paymentAtomic int64) (*Ticket, error) {
	var minted *Ticket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row so remaining-count checks and the decrement
		// cannot interleave with a concurrent mint or cancellation.
		var event events.Event
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("event %d not found", eventID)
			}
			return err
		}

		if !event.Status.CanMint() {
			return apperrors.InvalidState("event is %s", event.Status)
		}
		if event.TicketsRemaining <= 0 {
			return apperrors.SoldOut("event %d is sold out", eventID)
		}
		if paymentAtomic != event.PriceAtomic {
			return apperrors.PaymentMismatch("payment %d does not match ticket price %d", paymentAtomic, event.PriceAtomic)
		}
		if !seats.Valid(event.MaxTickets, seat) {
			return apperrors.InvalidSeat("seat %s does not exist for this event", seat)
		}

		// The unique (event_id, seat) index is the authority for the seat
		// race; a losing insert surfaces as a duplicate key.
		claim := &seats.SeatClaim{EventID: eventID, Seat: seat}
		if err := tx.Create(claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.SeatConflict("seat %s is already taken", seat)
			}
			return err
		}

		ticket := &Ticket{
			EventID:         eventID,
			Seat:            seat,
			Owner:           buyer,
			PriceAtomicPaid: paymentAtomic,
			RefundStatus:    RefundStatusNone,
		}
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}

		err = tx.Model(&events.Event{}).
			Where("id = ?", eventID).
			Updates(map[string]interface{}{
				"tickets_remaining": gorm.Expr("tickets_remaining - 1"),
				"updated_at":        time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		err = tx.Table("revenue_ledgers").
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"gross_received": gorm.Expr("gross_received + ?", paymentAtomic),
				"updated_at":     time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		minted = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

func (r *repository) GetByTokenID(ctx context.Context, tokenID uint64) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetUserTickets(ctx context.Context, owner uuid.UUID) ([]Ticket, error) {
	var userTickets []Ticket
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("token_id ASC").
		Find(&userTickets).Error
	return userTickets, err
}

func (r *repository) GetEvent(ctx context.Context, eventID uint64) (*events.Event, error) {
	var event events.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetEventTickets(ctx context.Context, eventID uint64) ([]Ticket, error) {
	var eventTickets []Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("token_id ASC").
		Find(&eventTickets).Error
	return eventTickets, err
}
