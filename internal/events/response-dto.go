package events

import "time"

type EventResponse struct {
	ID               uint64      `json:"id"`
	Owner            string      `json:"owner"`
	Name             string      `json:"name"`
	Date             string      `json:"date"`
	Time             string      `json:"time,omitempty"`
	Location         string      `json:"location"`
	City             string      `json:"city,omitempty"`
	Genre            string      `json:"genre,omitempty"`
	ImageURL         string      `json:"image_url,omitempty"`
	Description      string      `json:"description,omitempty"`
	MaxTickets       int         `json:"max_tickets"`
	TicketsRemaining int         `json:"tickets_remaining"`
	PriceAtomic      int64       `json:"price_atomic"`
	Status           EventStatus `json:"status"`
	RefundMode       RefundMode  `json:"refund_mode,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Offset     int             `json:"offset"`
	Limit      int             `json:"limit"`
}

// CancelEventResponse reports the cancellation outcome. The refund counters
// are only populated for AUTO_REFUND cancellations; failures listed here are
// recoverable through the reconciliation endpoint.
type CancelEventResponse struct {
	Event            EventResponse `json:"event"`
	RefundsProcessed int           `json:"refunds_processed"`
	RefundsFailed    int           `json:"refunds_failed"`
}
