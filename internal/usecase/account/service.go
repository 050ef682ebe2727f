package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/account-api/internal/adapter/repository"
	"github.com/marcos-nsantos/account-api/internal/domain"
	"github.com/marcos-nsantos/account-api/internal/domain/entity"
	"github.com/marcos-nsantos/account-api/internal/pkg/validation"
)

const TokenTypeBearer = "bearer"

const defaultNotifyTimeout = 10 * time.Second

const (
	msgEmailTaken             = "The email has already been taken."
	msgCurrentPasswordInvalid = "The current password is incorrect."
)

type Options struct {
	// TokenTTL is the lifetime of access tokens issued by Login.
	TokenTTL time.Duration
	// VerifyCurrentPassword makes ResetPassword check the supplied current
	// password against the stored hash before overwriting it.
	VerifyCurrentPassword bool
	// NotifyTimeout bounds each background signup notification. Zero means
	// ten seconds.
	NotifyTimeout time.Duration
}

type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	notifier    NotificationSink
	validator   *validation.Validator
	logger      *zap.Logger
	opts        Options

	background sync.WaitGroup
}

// NewService wires the account use cases. sessionRepo and notifier are
// optional: without a session repository tokens are valid until they expire,
// without a notifier no welcome message is sent.
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	notifier NotificationSink,
	logger *zap.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		notifier:    notifier,
		validator:   validation.New(),
		logger:      logger,
		opts:        opts,
	}
}

type SignupInput struct {
	Name     string `field:"name" validate:"required,max=255"`
	Email    string `field:"email" validate:"required,email,max=255"`
	Password string `field:"password" validate:"required,min=6,maxbytes=72"`
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	fields, err := s.validator.Struct(input)
	if err != nil {
		return nil, err
	}

	var cause error
	if !fields.Has("email") {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("checking email: %w", err)
		}
		if exists {
			fields.Add("email", msgEmailTaken)
			cause = domain.ErrUserAlreadyExists
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields, cause)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := entity.NewUser(input.Name, input.Email, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	s.notifySignup(ctx, user)

	return user, nil
}

type LoginInput struct {
	Email    string `field:"email" validate:"required,email"`
	Password string `field:"password" validate:"required,min=6"`
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
	User        *entity.User
}

// Login verifies the credentials and issues an access token. An unknown email
// and a wrong password both yield domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = strings.TrimSpace(input.Email)

	fields, err := s.validator.Struct(input)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields, nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	if s.sessionRepo != nil {
		if err := s.sessionRepo.Create(ctx, token.ID, user.ID, s.opts.TokenTTL); err != nil {
			return nil, fmt.Errorf("storing session: %w", err)
		}
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken: token.Value,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.opts.TokenTTL / time.Second),
		ExpiresAt:   token.ExpiresAt,
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token to exactly one user. Invalid, expired
// or revoked tokens, and tokens of users that no longer exist, yield
// domain.ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*entity.User, *entity.AccessToken, error) {
	token, err := s.tokens.Validate(bearer)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if s.sessionRepo != nil {
		exists, err := s.sessionRepo.Exists(ctx, token.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("checking session: %w", err)
		}
		if !exists {
			return nil, nil, domain.ErrUnauthenticated
		}
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}

	return user, token, nil
}

// Logout revokes the session of the given token.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if s.sessionRepo == nil {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

type ResetPasswordInput struct {
	CurrentPassword string `field:"password" validate:"required,min=6"`
	NewPassword     string `field:"newpassword" validate:"required,min=6,maxbytes=72"`
}

func (s *Service) ResetPassword(ctx context.Context, userID uuid.UUID, input ResetPasswordInput) (*entity.User, error) {
	fields, err := s.validator.Struct(input)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields, nil)
	}

	if s.opts.VerifyCurrentPassword {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrUnauthenticated
			}
			return nil, fmt.Errorf("getting user: %w", err)
		}
		if err := s.hasher.Compare(user.PasswordHash, input.CurrentPassword); err != nil {
			fields.Add("password", msgCurrentPasswordInvalid)
			return nil, domain.NewValidationError(fields, nil)
		}
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.userRepo.UpdatePassword(ctx, userID, hash)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info("user password changed", zap.String("user_id", userID.String()))

	return user, nil
}

type UpdateProfileInput struct {
	Name        string `field:"name" validate:"required,max=255"`
	PhoneNumber string `field:"phonenumber" validate:"required,number,mindigits=10,max=32"`
	Address     string `field:"address" validate:"required"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Address = strings.TrimSpace(input.Address)

	fields, err := s.validator.Struct(input)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields, nil)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, entity.Profile{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("user account updated", zap.String("user_id", userID.String()))

	return user, nil
}

// Wait blocks until background signup notifications have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

func (s *Service) notifySignup(ctx context.Context, user *entity.User) {
	if s.notifier == nil {
		return
	}

	snapshot := *user
	snapshot.PasswordHash = ""
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("signup notification panicked",
					zap.String("user_id", snapshot.ID.String()),
					zap.Any("panic", r),
				)
			}
		}()

		if err := s.notifier.NotifySignup(ctx, snapshot.Email, snapshot); err != nil {
			s.logger.Warn("signup notification failed",
				zap.String("user_id", snapshot.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

func emailTaken() error {
	fields := domain.FieldErrors{}
	fields.Add("email", msgEmailTaken)
	return domain.NewValidationError(fields, domain.ErrUserAlreadyExists)
}
