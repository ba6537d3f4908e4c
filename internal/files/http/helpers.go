// Package http provides HTTP handlers for encrypted file storage, sharing and public links.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
	"github.com/allisson/filevault/internal/httputil"
	"github.com/allisson/filevault/internal/identity"
)

// errMissingRequester is returned when an authenticated route runs without a requester.
var errMissingRequester = apperrors.Wrap(apperrors.ErrUnauthorized, "authentication required")

// requireRequester returns the authenticated user id or writes a 401 response.
func requireRequester(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	requesterID, ok := identity.GetRequester(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, errMissingRequester, logger)
		return uuid.Nil, false
	}
	return requesterID, true
}

// parseFileID parses the :id path parameter or writes a 422 response.
func parseFileID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid file id"), logger)
		return uuid.Nil, false
	}
	return fileID, true
}

// contentDisposition returns an attachment header value with a quoted, percent-encoded file name.
func contentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q", url.PathEscape(fileName))
}

// writeContent sends decrypted content as an attachment and zeroes it afterwards.
func writeContent(c *gin.Context, content *filesDomain.Content) {
	defer cryptoDomain.Zero(content.Data)

	c.Header("Content-Disposition", contentDisposition(content.FileName))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, content.MimeType, content.Data)
}
