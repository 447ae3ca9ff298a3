package refunds

import (
	"time"

	"github.com/google/uuid"
)

// RefundRequest is one buyer-claim filing. At most one active request
// (REQUESTED or APPROVED) exists per ticket; rejected requests stay on
// record and a new one may be filed after.
type RefundRequest struct {
	ID              uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID         uint64        `json:"event_id" gorm:"not null;index"`
	TicketTokenID   uint64        `json:"ticket_token_id" gorm:"not null;index:idx_refund_requests_ticket"`
	Buyer           uuid.UUID     `json:"buyer" gorm:"type:uuid;not null"`
	AmountAtomic    int64         `json:"amount_atomic" gorm:"not null"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'REQUESTED'"`
	RequestedAt     time.Time     `json:"requested_at" gorm:"autoCreateTime"`
	ProcessedAt     *time.Time    `json:"processed_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty" gorm:"size:500"`
}

func (r *RefundRequest) ToResponse() RefundRequestResponse {
	return RefundRequestResponse{
		ID:              r.ID,
		EventID:         r.EventID,
		TicketTokenID:   r.TicketTokenID,
		Buyer:           r.Buyer.String(),
		AmountAtomic:    r.AmountAtomic,
		Status:          r.Status,
		RequestedAt:     r.RequestedAt,
		ProcessedAt:     r.ProcessedAt,
		RejectionReason: r.RejectionReason,
	}
}

// TableName specifies the table name for GORM
func (RefundRequest) TableName() string {
	return "refund_requests"
}
