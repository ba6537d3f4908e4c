package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/filevault/internal/files/http/dto"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// PublicLinkHandler handles public link issuance and anonymous public link access.
type PublicLinkHandler struct {
	publicLinkUseCase filesUseCase.PublicLinkUseCase
	logger            *slog.Logger
}

// NewPublicLinkHandler creates a new public link handler.
func NewPublicLinkHandler(publicLinkUseCase filesUseCase.PublicLinkUseCase, logger *slog.Logger) *PublicLinkHandler {
	return &PublicLinkHandler{
		publicLinkUseCase: publicLinkUseCase,
		logger:            logger,
	}
}

// IssueHandler returns the active public link of a file or creates one.
// POST /v1/files/:id/public-link - Owner only. The body {"hours_valid": N} is optional.
func (h *PublicLinkHandler) IssueHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	var req dto.PublicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	link, err := h.publicLinkUseCase.Issue(c.Request.Context(), fileID, requesterID, req.HoursValid)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPublicLinkToResponse(link))
}

// RevokeForFileHandler clears the public link of a file.
// DELETE /v1/files/:id/public-link - Owner only. Returns 204 No Content.
func (h *PublicLinkHandler) RevokeForFileHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	if err := h.publicLinkUseCase.RevokeForFile(c.Request.Context(), fileID, requesterID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// GetMetadataHandler resolves a token without consuming it.
// GET /v1/public/:token/metadata - Returns 410 Gone once the link has expired.
func (h *PublicLinkHandler) GetMetadataHandler(c *gin.Context) {
	metadata, err := h.publicLinkUseCase.GetMetadata(c.Request.Context(), c.Param("token"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPublicMetadataToResponse(metadata))
}

// GetContentHandler consumes a token and returns the decrypted file.
// GET /v1/public/:token/content - The link is revoked by this call.
func (h *PublicLinkHandler) GetContentHandler(c *gin.Context) {
	content, err := h.publicLinkUseCase.GetContent(c.Request.Context(), c.Param("token"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	writeContent(c, content)
}

// RevokeHandler clears the link holding a token. Unknown tokens also return 204.
// DELETE /v1/public/:token
func (h *PublicLinkHandler) RevokeHandler(c *gin.Context) {
	if err := h.publicLinkUseCase.Revoke(c.Request.Context(), c.Param("token")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
