package tickets

// RefundStatus is the per-ticket refund state machine:
// NONE -> REQUESTED -> APPROVED -> REFUNDED, with REQUESTED -> REJECTED as
// the alternate exit. A rejected ticket may be re-requested; REFUNDED is
// terminal.
type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "NONE"
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusApproved  RefundStatus = "APPROVED"
	RefundStatusRefunded  RefundStatus = "REFUNDED"
	RefundStatusRejected  RefundStatus = "REJECTED"
)

func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusNone, RefundStatusRequested, RefundStatusApproved, RefundStatusRefunded, RefundStatusRejected:
		return true
	default:
		return false
	}
}

// CanRequest reports whether a new refund request may be filed
func (s RefundStatus) CanRequest() bool {
	return s == RefundStatusNone || s == RefundStatusRejected
}
