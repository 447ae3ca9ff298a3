package revenue

type LedgerResponse struct {
	EventID        uint64 `json:"event_id"`
	GrossReceived  int64  `json:"gross_received"`
	TotalRefunded  int64  `json:"total_refunded"`
	TotalWithdrawn int64  `json:"total_withdrawn"`
	RefundReserve  int64  `json:"refund_reserve"`
	Withdrawable   int64  `json:"withdrawable"`
}

type WithdrawResponse struct {
	EventID      uint64 `json:"event_id"`
	AmountAtomic int64  `json:"amount_atomic"`
}
