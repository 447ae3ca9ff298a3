package tickets

import "time"

type TicketResponse struct {
	TokenID         uint64       `json:"token_id"`
	EventID         uint64       `json:"event_id"`
	Seat            string       `json:"seat"`
	Owner           string       `json:"owner"`
	PriceAtomicPaid int64        `json:"price_atomic_paid"`
	RefundStatus    RefundStatus `json:"refund_status"`
	PurchasedAt     time.Time    `json:"purchased_at"`
}

type UserTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Count   int              `json:"count"`
}

type EventTicketsResponse struct {
	EventID uint64           `json:"event_id"`
	Tickets []TicketResponse `json:"tickets"`
	Count   int              `json:"count"`
}
