package notifications

import "time"

// Type enumerates the notification boundary consumed by external observers.
type Type string

const (
	TypeEventCreated    Type = "EVENT_CREATED"
	TypeEventUpdated    Type = "EVENT_UPDATED"
	TypeEventCancelled  Type = "EVENT_CANCELLED"
	TypeTicketMinted    Type = "TICKET_MINTED"
	TypeRefundRequested Type = "REFUND_REQUESTED"
	TypeRefundApproved  Type = "REFUND_APPROVED"
	TypeRefundClaimed   Type = "REFUND_CLAIMED"
)

// Notification is the at-least-once payload published to Kafka. Consumers
// must treat it as a hint and re-fetch authoritative state by entity id;
// duplicates and reordering are expected.
type Notification struct {
	Type      Type              `json:"type"`
	EntityID  uint64            `json:"entity_id"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}
