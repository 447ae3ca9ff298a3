package seats

import "time"

// SeatClaim is the durable taken-seat set. One row per (event, seat), ever:
// a claim is never deleted, even after the ticket behind it is refunded.
// The unique constraint on (event_id, seat) is what makes reservation
// linearizable per seat.
type SeatClaim struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID   uint64    `json:"event_id" gorm:"not null;uniqueIndex:unique_seat_per_event"`
	Seat      string    `json:"seat" gorm:"not null;size:8;uniqueIndex:unique_seat_per_event"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for SeatClaim
func (SeatClaim) TableName() string {
	return "seat_claims"
}

// SeatMapResponse maps every valid seat id of an event to its taken flag
type SeatMapResponse struct {
	EventID    uint64          `json:"event_id"`
	Columns    int             `json:"columns"`
	Rows       int             `json:"rows"`
	MaxTickets int             `json:"max_tickets"`
	Seats      map[string]bool `json:"seats"`
}

// SeatStatusResponse answers a single taken-seat lookup
type SeatStatusResponse struct {
	EventID uint64 `json:"event_id"`
	Seat    string `json:"seat"`
	Taken   bool   `json:"taken"`
}
