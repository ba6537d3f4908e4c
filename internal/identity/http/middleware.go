// Package http provides the gin middleware that authenticates requesters and limits their request rate.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/httputil"
	"github.com/allisson/filevault/internal/identity"
)

// AccessTokenCookie is the cookie checked when no Authorization header is present.
const AccessTokenCookie = "access_token"

// TokenParser verifies an access token and returns the user id it was issued to.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// extractToken reads a Bearer token (case-insensitive scheme) or falls back to the access_token cookie.
// ok is false when a header is present but malformed.
func extractToken(c *gin.Context) (token string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return "", false
		}
		token = strings.TrimSpace(authHeader[len(bearerPrefix):])
		return token, token != ""
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil || cookie == "" {
		return "", true
	}
	return cookie, true
}

// AuthenticationMiddleware requires a valid access token and stores the requester in the request context.
//
// Error handling:
//   - Missing token → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token → 401 Unauthorized
func AuthenticationMiddleware(tokens TokenParser, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok || token == "" {
			logger.Debug("authentication failed: missing or malformed access token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(identity.WithRequester(c.Request.Context(), userID))
		c.Next()
	}
}

// OptionalAuthenticationMiddleware stores the requester when a valid token is present
// and lets anonymous requests through unchanged.
func OptionalAuthenticationMiddleware(tokens TokenParser, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if ok && token != "" {
			if userID, err := tokens.Parse(token); err == nil {
				c.Request = c.Request.WithContext(identity.WithRequester(c.Request.Context(), userID))
			} else {
				logger.Debug("ignoring invalid access token on public route", slog.String("error", err.Error()))
			}
		}
		c.Next()
	}
}
