package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is a bearer credential bound to one user. It is never persisted;
// only its ID may be recorded as a session.
type AccessToken struct {
	ID        string
	UserID    uuid.UUID
	Value     string
	ExpiresAt time.Time
}
