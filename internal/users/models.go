package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleOrganizer), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// CanOrganize reports whether the role carries the organizer capability.
// Admins hold every capability an organizer does.
func (r Role) CanOrganize() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
