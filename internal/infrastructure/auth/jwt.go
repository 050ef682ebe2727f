package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marcos-nsantos/account-api/internal/domain"
	"github.com/marcos-nsantos/account-api/internal/domain/entity"
)

type JWTService struct {
	secretKey []byte
	issuer    string
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// Issue signs a token for userID that expires ttl from now. Every token gets a
// random ID, so two tokens for the same user and instant still differ.
func (s *JWTService) Issue(userID uuid.UUID, ttl time.Duration) (*entity.AccessToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	tokenID := uuid.NewString()

	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &entity.AccessToken{
		ID:        tokenID,
		UserID:    userID,
		Value:     tokenStr,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *JWTService) Validate(tokenStr string) (*entity.AccessToken, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	return &entity.AccessToken{
		ID:        claims.ID,
		UserID:    userID,
		Value:     tokenStr,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
