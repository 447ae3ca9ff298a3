package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is one issued seat. Token ids come from the database sequence and
// are globally monotonic; rows are never deleted, so a seat stays taken
// even after its ticket is refunded.
type Ticket struct {
	TokenID         uint64       `json:"token_id" gorm:"primaryKey;autoIncrement"`
	EventID         uint64       `json:"event_id" gorm:"not null;index:idx_tickets_event_id"`
	Seat            string       `json:"seat" gorm:"not null;size:10"`
	Owner           uuid.UUID    `json:"owner" gorm:"type:uuid;not null;index:idx_tickets_owner"`
	PriceAtomicPaid int64        `json:"price_atomic_paid" gorm:"not null"`
	RefundStatus    RefundStatus `json:"refund_status" gorm:"type:varchar(20);not null;default:'NONE'"`
	PurchasedAt     time.Time    `json:"purchased_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		TokenID:         t.TokenID,
		EventID:         t.EventID,
		Seat:            t.Seat,
		Owner:           t.Owner.String(),
		PriceAtomicPaid: t.PriceAtomicPaid,
		RefundStatus:    t.RefundStatus,
		PurchasedAt:     t.PurchasedAt,
	}
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}
