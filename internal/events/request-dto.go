package events

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Date        string `json:"date" binding:"required,eventdate"`
	Time        string `json:"time" binding:"omitempty,eventtime"`
	Location    string `json:"location" binding:"required,min=1,max=255"`
	City        string `json:"city" binding:"max=100"`
	Genre       string `json:"genre" binding:"max=100"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	Description string `json:"description" binding:"max=2000"`
	MaxTickets  int    `json:"max_tickets" binding:"required,min=1,max=1000"`
	PriceAtomic int64  `json:"price_atomic" binding:"min=0"`
}

type CancelEventRequest struct {
	RefundMode string `json:"refund_mode" binding:"required,oneof=AUTO_REFUND BUYER_CLAIM"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=POSTPONED COMPLETED"`
}

type EventListQuery struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
}
