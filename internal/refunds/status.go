package refunds

// RequestStatus tracks a buyer-claim refund request. It mirrors the ticket
// refund states that involve a filed request.
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "REQUESTED"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRefunded  RequestStatus = "REFUNDED"
	RequestStatusRejected  RequestStatus = "REJECTED"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusRequested, RequestStatusApproved, RequestStatusRefunded, RequestStatusRejected:
		return true
	default:
		return false
	}
}

// IsActive reports whether the request still blocks a new one for the
// same ticket.
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusRequested || s == RequestStatusApproved
}
