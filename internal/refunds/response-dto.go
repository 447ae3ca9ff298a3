package refunds

import "time"

type RefundRequestResponse struct {
	ID              uint64        `json:"id"`
	EventID         uint64        `json:"event_id"`
	TicketTokenID   uint64        `json:"ticket_token_id"`
	Buyer           string        `json:"buyer"`
	AmountAtomic    int64         `json:"amount_atomic"`
	Status          RequestStatus `json:"status"`
	RequestedAt     time.Time     `json:"requested_at"`
	ProcessedAt     *time.Time    `json:"processed_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
}

type RefundRequestListResponse struct {
	Requests []RefundRequestResponse `json:"requests"`
	Count    int                     `json:"count"`
}

// BatchResult reports an auto-refund or reconciliation run. Failed tickets
// keep their NONE status and are picked up by the next run.
type BatchResult struct {
	EventID   uint64 `json:"event_id"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

type ClaimRefundResponse struct {
	TicketTokenID uint64 `json:"ticket_token_id"`
	AmountAtomic  int64  `json:"amount_atomic"`
	Status        string `json:"status"`
}
