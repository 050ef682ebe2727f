package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/account-api/internal/domain/entity"
	"github.com/marcos-nsantos/account-api/internal/usecase/account"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type AccountService interface {
	Signup(ctx context.Context, input account.SignupInput) (*entity.User, error)
	Login(ctx context.Context, input account.LoginInput) (*account.LoginResult, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, input account.ResetPasswordInput) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input account.UpdateProfileInput) (*entity.User, error)
	Logout(ctx context.Context, tokenID string) error
}
