package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketcore/internal/events"
	"ticketcore/internal/revenue"
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/database"
	"ticketcore/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting ticketcore database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"refund_requests",
		"revenue_ledgers",
		"tickets",
		"seat_claims",
		"events",
		"users",
	}

	tx := s.db.GetPostgreSQL().Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedEvents(userIDs["organizer"]); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if s.db.GetRedis() != nil {
		if err := s.db.GetRedis().FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one organizer and two buyers, all with password "qwerty".
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"organizer", "Olivia", "Reed", "organizer@ticketcore.dev", users.RoleOrganizer},
		{"buyer1", "Ben", "Carter", "buyer1@ticketcore.dev", users.RoleUser},
		{"buyer2", "Dana", "Fox", "buyer2@ticketcore.dev", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.GetPostgreSQL().Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvents creates a handful of upcoming events with empty revenue ledgers.
func (s *Seeder) SeedEvents(organizer uuid.UUID) error {
	fmt.Println("  Seeding events...")

	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	nextMonth := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	eventsData := []events.Event{
		{
			Owner:            organizer,
			Name:             "Midnight Jazz Sessions",
			Date:             nextWeek,
			Time:             "21:00",
			Location:         "Blue Note Hall",
			City:             "Austin",
			Genre:            "Jazz",
			Description:      "An intimate late-night set with a rotating quartet.",
			MaxTickets:       120,
			TicketsRemaining: 120,
			PriceAtomic:      4500,
			Status:           events.EventStatusActive,
		},
		{
			Owner:            organizer,
			Name:             "Open Air Indie Fest",
			Date:             nextMonth,
			Time:             "16:30",
			Location:         "Riverside Park",
			City:             "Portland",
			Genre:            "Indie",
			Description:      "Six bands, two stages, one afternoon.",
			MaxTickets:       500,
			TicketsRemaining: 500,
			PriceAtomic:      8000,
			Status:           events.EventStatusActive,
		},
		{
			Owner:            organizer,
			Name:             "Standup Showcase",
			Date:             nextWeek,
			Location:         "The Basement Club",
			City:             "Chicago",
			Genre:            "Comedy",
			Description:      "Five comics, no phones.",
			MaxTickets:       80,
			TicketsRemaining: 80,
			PriceAtomic:      2500,
			Status:           events.EventStatusActive,
		},
	}

	for i := range eventsData {
		event := &eventsData[i]
		if err := s.db.GetPostgreSQL().Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", event.Name, err)
		}

		ledger := revenue.Ledger{EventID: event.ID}
		if err := s.db.GetPostgreSQL().Create(&ledger).Error; err != nil {
			return fmt.Errorf("failed to create ledger for event %s: %w", event.Name, err)
		}

		fmt.Printf("    Created event: %s (%d seats)\n", event.Name, event.MaxTickets)
	}

	return nil
}
