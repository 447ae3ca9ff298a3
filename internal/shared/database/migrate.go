package database

import (
	"fmt"
	"log"

	"ticketcore/internal/events"
	"ticketcore/internal/refunds"
	"ticketcore/internal/revenue"
	"ticketcore/internal/seats"
	"ticketcore/internal/tickets"
	"ticketcore/internal/users"

	"gorm.io/gorm"
)

// Migrate runs the schema migrations for every ledger table
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension present
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&seats.SeatClaim{},
		&tickets.Ticket{},
		&refunds.RefundRequest{},
		&revenue.Ledger{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	if err := MigrateConstraints(db); err != nil {
		return fmt.Errorf("failed to apply constraints: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
