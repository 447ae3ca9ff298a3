package revenue

import "time"

// Ledger is the per-event money watermark. All three sums only grow;
// the row is created together with its event and never deleted. Invariant:
// gross_received - total_refunded - total_withdrawn >= 0.
type Ledger struct {
	ID             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID        uint64    `json:"event_id" gorm:"not null;uniqueIndex:unique_ledger_per_event"`
	GrossReceived  int64     `json:"gross_received" gorm:"not null;default:0"`
	TotalRefunded  int64     `json:"total_refunded" gorm:"not null;default:0"`
	TotalWithdrawn int64     `json:"total_withdrawn" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Withdrawable is the raw watermark balance, before any hold for approved
// but unclaimed refunds.
func (l *Ledger) Withdrawable() int64 {
	return l.GrossReceived - l.TotalRefunded - l.TotalWithdrawn
}

// TableName specifies the table name for GORM
func (Ledger) TableName() string {
	return "revenue_ledgers"
}
