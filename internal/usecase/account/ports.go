package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/account-api/internal/domain/entity"
)

//go:generate mockgen -source=ports.go -destination=../../mocks/account_mocks.go -package=mocks

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, ttl time.Duration) (*entity.AccessToken, error)
	Validate(token string) (*entity.AccessToken, error)
}

// NotificationSink receives a welcome notification after signup. Calls are
// made off the request path and their errors are only logged.
type NotificationSink interface {
	NotifySignup(ctx context.Context, email string, user entity.User) error
}
