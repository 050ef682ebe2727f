package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/account-api/internal/domain"
	"github.com/marcos-nsantos/account-api/internal/domain/entity"
	"github.com/marcos-nsantos/account-api/internal/pkg/httputil"
)

//go:generate mockgen -source=auth.go -destination=../../mocks/middleware_mocks.go -package=mocks

const (
	UserIDKey    = "user_id"
	UserKey      = "user"
	TokenIDKey   = "token_id"
	BearerPrefix = "Bearer "

	unauthenticatedCode    = "UNAUTHENTICATED"
	unauthenticatedMessage = "Unauthenticated."
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*entity.User, *entity.AccessToken, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// RequireAuth rejects the request unless it carries a valid bearer token and
// stores the resolved user, its id and the token id on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthenticated(c)
			return
		}

		bearer := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if bearer == "" {
			abortUnauthenticated(c)
			return
		}

		user, token, err := m.authenticator.Authenticate(c.Request.Context(), bearer)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				abortUnauthenticated(c)
				return
			}
			_ = c.Error(err)
			httputil.InternalError(c)
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Set(TokenIDKey, token.ID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	httputil.ErrorWithCode(c, http.StatusUnauthorized, unauthenticatedCode, unauthenticatedMessage)
	c.Abort()
}
