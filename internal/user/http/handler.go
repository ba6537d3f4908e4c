// Package http provides HTTP handlers for account registration and login.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/httputil"
	"github.com/allisson/filevault/internal/identity"
	identityHTTP "github.com/allisson/filevault/internal/identity/http"
	"github.com/allisson/filevault/internal/user/http/dto"
	userUseCase "github.com/allisson/filevault/internal/user/usecase"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	userUseCase  userUseCase.UseCase
	secureCookie bool
	logger       *slog.Logger
}

// NewUserHandler creates a new user handler. secureCookie marks the access_token cookie Secure.
func NewUserHandler(userUseCase userUseCase.UseCase, secureCookie bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase:  userUseCase,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterHandler creates an account.
// POST /v1/auth/register - Returns 201 Created with the user.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), userUseCase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// LoginHandler verifies credentials and returns an access token.
// POST /v1/auth/login - The token is also set as an HttpOnly access_token cookie.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.userUseCase.Login(c.Request.Context(), userUseCase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(identityHTTP.AccessTokenCookie, session.AccessToken, maxAge, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// LogoutHandler ends a cookie session by expiring the access_token cookie.
// POST /v1/auth/logout - Returns 204 No Content. Bearer tokens stay valid until they expire.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(identityHTTP.AccessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// ProfileHandler returns the authenticated user.
// GET /v1/auth/me
func (h *UserHandler) ProfileHandler(c *gin.Context) {
	userID, ok := identity.GetRequester(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "authentication required"), h.logger)
		return
	}

	user, err := h.userUseCase.GetByID(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}
