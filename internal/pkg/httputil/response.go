package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcos-nsantos/account-api/internal/domain/entity"
	"github.com/marcos-nsantos/account-api/internal/pkg/apperror"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type FieldErrorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

func FieldErrors(c *gin.Context, status int, fields map[string][]string) {
	c.JSON(status, FieldErrorsResponse{Errors: fields})
}

func InternalError(c *gin.Context) {
	ErrorWithCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// HandleError renders err and records it on the context for the request
// logger. Errors that are not an *apperror.AppError become a 500.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		InternalError(c)
		return
	}

	if appErr.Fields != nil {
		FieldErrors(c, appErr.StatusCode, appErr.Fields)
		return
	}
	ErrorWithCode(c, appErr.StatusCode, appErr.Code, appErr.Message)
}

func GetUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get("user_id"); exists {
		return id.(uuid.UUID)
	}
	return uuid.Nil
}

func GetUser(c *gin.Context) *entity.User {
	if user, exists := c.Get("user"); exists {
		return user.(*entity.User)
	}
	return nil
}

func GetTokenID(c *gin.Context) string {
	return c.GetString("token_id")
}

func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
