package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/account-api/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/account-api/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/account-api/internal/domain"
	"github.com/marcos-nsantos/account-api/internal/pkg/apperror"
	"github.com/marcos-nsantos/account-api/internal/pkg/httputil"
	"github.com/marcos-nsantos/account-api/internal/usecase/account"
)

const (
	MsgSignedUp        = "User successfully registered"
	MsgPasswordChanged = "User password has been changed"
	MsgAccountUpdated  = "User Account updated"
	MsgSignedOut       = "User successfully signed out"

	msgInvalidPayload = "The request body must be valid JSON."
)

type AccountHandler struct {
	accountSvc AccountService
}

func NewAccountHandler(accountSvc AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Signup godoc
//
//	@Summary		Register a new user
//	@Description	Create a new user account and queue a welcome email
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.SignupRequest	true	"Signup data"
//	@Success		200		{object}	response.UserMessageResponse
//	@Failure		400		{object}	httputil.FieldErrorsResponse	"Invalid fields or email already taken"
//	@Router			/auth/signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req request.SignupRequest
	if !bindJSON(c, &req, http.StatusBadRequest) {
		return
	}

	user, err := h.accountSvc.Signup(c.Request.Context(), account.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	httputil.OK(c, response.UserMessageResponse{
		Message: MsgSignedUp,
		User:    response.UserFromEntity(user),
	})
}

// Login godoc
//
//	@Summary		Login user
//	@Description	Verify credentials and return a bearer access token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	response.LoginResponse
//	@Failure		401		{object}	httputil.ErrorResponse			"Invalid credentials"
//	@Failure		422		{object}	httputil.FieldErrorsResponse
//	@Router			/auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req, http.StatusUnprocessableEntity) {
		return
	}

	result, err := h.accountSvc.Login(c.Request.Context(), account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, http.StatusUnprocessableEntity)
		return
	}

	httputil.OK(c, response.LoginFromResult(result))
}

// PasswordReset godoc
//
//	@Summary		Change password
//	@Description	Replace the authenticated user's password
//	@Tags			auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.PasswordResetRequest	true	"Current and new password"
//	@Success		200		{object}	response.UserMessageResponse
//	@Failure		401		{object}	httputil.ErrorResponse
//	@Failure		422		{object}	httputil.FieldErrorsResponse
//	@Router			/auth/passwordReset [post]
func (h *AccountHandler) PasswordReset(c *gin.Context) {
	var req request.PasswordResetRequest
	if !bindJSON(c, &req, http.StatusUnprocessableEntity) {
		return
	}

	user, err := h.accountSvc.ResetPassword(c.Request.Context(), httputil.GetUserID(c), account.ResetPasswordInput{
		CurrentPassword: req.Password,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondError(c, err, http.StatusUnprocessableEntity)
		return
	}

	httputil.OK(c, response.UserMessageResponse{
		Message: MsgPasswordChanged,
		User:    response.UserFromEntity(user),
	})
}

// UpdateAccountDetails godoc
//
//	@Summary		Update profile
//	@Description	Overwrite name, phone number and address of the authenticated user
//	@Tags			auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.UpdateAccountDetailsRequest	true	"Profile data"
//	@Success		200		{object}	response.UserMessageResponse
//	@Failure		401		{object}	httputil.ErrorResponse
//	@Failure		422		{object}	httputil.FieldErrorsResponse
//	@Router			/auth/updateAccountDetails [post]
func (h *AccountHandler) UpdateAccountDetails(c *gin.Context) {
	var req request.UpdateAccountDetailsRequest
	if !bindJSON(c, &req, http.StatusUnprocessableEntity) {
		return
	}

	user, err := h.accountSvc.UpdateProfile(c.Request.Context(), httputil.GetUserID(c), account.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: string(req.PhoneNumber),
		Address:     req.Address,
	})
	if err != nil {
		respondError(c, err, http.StatusUnprocessableEntity)
		return
	}

	httputil.OK(c, response.UserMessageResponse{
		Message: MsgAccountUpdated,
		User:    response.UserFromEntity(user),
	})
}

// Logout godoc
//
//	@Summary		Logout user
//	@Description	Revoke the access token used for this request
//	@Tags			auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httputil.MessageResponse
//	@Failure		401	{object}	httputil.ErrorResponse
//	@Router			/auth/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.accountSvc.Logout(c.Request.Context(), httputil.GetTokenID(c)); err != nil {
		respondError(c, err, http.StatusUnprocessableEntity)
		return
	}
	httputil.Message(c, MsgSignedOut)
}

// Me godoc
//
//	@Summary		Current user
//	@Description	Return the user the bearer token belongs to
//	@Tags			user
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	response.UserResponse
//	@Failure		401	{object}	httputil.ErrorResponse
//	@Router			/user [get]
func (h *AccountHandler) Me(c *gin.Context) {
	user := httputil.GetUser(c)
	if user == nil {
		httputil.HandleError(c, apperror.Unauthorized("UNAUTHENTICATED", "Unauthenticated.", domain.ErrUnauthenticated))
		return
	}
	httputil.OK(c, response.UserFromEntity(user))
}

// bindJSON decodes the body into dst. An empty body leaves dst zero so the
// service reports every missing field.
func bindJSON(c *gin.Context, dst any, status int) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httputil.HandleError(c, apperror.Validation(status, map[string][]string{
		"payload": {msgInvalidPayload},
	}, err))
	return false
}

func respondError(c *gin.Context, err error, validationStatus int) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.HandleError(c, apperror.Validation(validationStatus, verr.Fields, err))
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.HandleError(c, apperror.Unauthorized("", "Unauthorized", err))
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.HandleError(c, apperror.Unauthorized("UNAUTHENTICATED", "Unauthenticated.", err))
	default:
		httputil.HandleError(c, apperror.Internal(err))
	}
}
