package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the ledger row for one ticketed event. IDs are assigned by the
// database sequence starting at 1 and are never reused; rows are never
// deleted (cancellation is a status, not a removal).
type Event struct {
	ID               uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Owner            uuid.UUID   `json:"owner" gorm:"type:uuid;not null;index"`
	Name             string      `json:"name" gorm:"not null;size:255"`
	Date             string      `json:"date" gorm:"not null;size:10"` // YYYY-MM-DD
	Time             string      `json:"time" gorm:"size:5"`           // HH:MM, optional
	Location         string      `json:"location" gorm:"not null;size:255"`
	City             string      `json:"city" gorm:"size:100"`
	Genre            string      `json:"genre" gorm:"size:100"`
	ImageURL         string      `json:"image_url" gorm:"size:500"`
	Description      string      `json:"description" gorm:"type:text"`
	MaxTickets       int         `json:"max_tickets" gorm:"not null;check:max_tickets >= 1 AND max_tickets <= 1000"`
	TicketsRemaining int         `json:"tickets_remaining" gorm:"not null;check:tickets_remaining >= 0"`
	PriceAtomic      int64       `json:"price_atomic" gorm:"not null;check:price_atomic >= 0"`
	Status           EventStatus `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	RefundMode       RefundMode  `json:"refund_mode,omitempty" gorm:"type:varchar(20)"` // set at cancellation
	CreatedAt        time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// ToResponse converts an Event to its API projection
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:               e.ID,
		Owner:            e.Owner.String(),
		Name:             e.Name,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.Location,
		City:             e.City,
		Genre:            e.Genre,
		ImageURL:         e.ImageURL,
		Description:      e.Description,
		MaxTickets:       e.MaxTickets,
		TicketsRemaining: e.TicketsRemaining,
		PriceAtomic:      e.PriceAtomic,
		Status:           e.Status,
		RefundMode:       e.RefundMode,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}
