package tickets

type MintTicketRequest struct {
	Seat          string `json:"seat" binding:"required,max=10,seatid"`
	PaymentAtomic int64  `json:"payment_atomic" binding:"min=0"`
}
