package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  *string
	Address      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the fields changed together by a profile update.
type Profile struct {
	Name        string
	PhoneNumber string
	Address     string
}

func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
