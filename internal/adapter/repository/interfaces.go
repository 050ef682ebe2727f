package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/account-api/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile entity.Profile) (*entity.User, error)
}

// SessionRepository records issued access tokens by token ID so they can be
// revoked before they expire.
type SessionRepository interface {
	Create(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
}
