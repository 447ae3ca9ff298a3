package events

// EventStatus is the closed lifecycle enum. ACTIVE is the only state that
// admits mutation; every transition out of it is terminal.
type EventStatus string

const (
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusPostponed EventStatus = "POSTPONED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusActive, EventStatusCancelled, EventStatusPostponed, EventStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status machine admits the move.
// Only ACTIVE has outgoing edges.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	if s != EventStatusActive {
		return false
	}
	switch next {
	case EventStatusCancelled, EventStatusPostponed, EventStatusCompleted:
		return true
	default:
		return false
	}
}

// CanMint reports whether tickets may still be sold
func (s EventStatus) CanMint() bool {
	return s == EventStatusActive
}

// RefundMode selects how a cancelled event settles with its buyers.
// It is meaningless until the event is CANCELLED.
type RefundMode string

const (
	RefundModeAuto       RefundMode = "AUTO_REFUND"
	RefundModeBuyerClaim RefundMode = "BUYER_CLAIM"
)

func (m RefundMode) IsValid() bool {
	return m == RefundModeAuto || m == RefundModeBuyerClaim
}
