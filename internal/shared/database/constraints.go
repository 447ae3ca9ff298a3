package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints the concurrency model
// relies on. The unique seat claim constraint is the authority that closes
// the double-mint race; everything else is query performance.
func MigrateConstraints(db *gorm.DB) error {
	// Exactly one claim per (event, seat), ever
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_event
		ON seat_claims (event_id, seat);
	`).Error
	if err != nil {
		return err
	}

	// One ledger row per event; withdrawals lock this row
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_ledger_per_event
		ON revenue_ledgers (event_id);
	`).Error
	if err != nil {
		return err
	}

	// Ticket lookups by owner and by event
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_owner
		ON tickets (owner);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_event_id
		ON tickets (event_id);
	`).Error
	if err != nil {
		return err
	}

	// Refund request lookups by ticket
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_requests_ticket
		ON refund_requests (ticket_token_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
