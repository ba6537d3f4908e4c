package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/filevault/internal/files/http/dto"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// FileHandler handles HTTP requests for authenticated file operations.
type FileHandler struct {
	fileUseCase    filesUseCase.FileUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler. maxUploadBytes caps the multipart request body.
func NewFileHandler(
	fileUseCase filesUseCase.FileUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		fileUseCase:    fileUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadHandler encrypts and stores an uploaded file.
// POST /v1/files - multipart form with file, salt and iv (standard Base64).
// Returns 201 Created with the file id.
func (h *FileHandler) UploadHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes {
		h.payloadTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.payloadTooLarge(c)
			return
		}
		httputil.HandleValidationErrorGin(c, fmt.Errorf("file is required"), h.logger)
		return
	}

	form := dto.UploadForm{Salt: c.PostForm("salt"), IV: c.PostForm("iv")}
	if err := form.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	salt, nonce, err := form.Decode()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	content, err := readFormFile(fileHeader)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	file, err := h.fileUseCase.Upload(c.Request.Context(), filesUseCase.UploadInput{
		OwnerID:  requesterID,
		FileName: fileHeader.Filename,
		Content:  content,
		Salt:     salt,
		Nonce:    nonce,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFileToUploadResponse(file))
}

// ListHandler lists the files the requester owns or has been granted.
// GET /v1/files?offset=0&limit=50
func (h *FileHandler) ListHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}

	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	summaries, err := h.fileUseCase.List(c.Request.Context(), requesterID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSummariesToListResponse(summaries))
}

// GetContentHandler returns the decrypted file as an attachment.
// GET /v1/files/:id/content - Requires download access.
func (h *FileHandler) GetContentHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	content, err := h.fileUseCase.GetContent(c.Request.Context(), fileID, requesterID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	writeContent(c, content)
}

// GetMetadataHandler returns file metadata.
// GET /v1/files/:id/metadata - Requires view access.
func (h *FileHandler) GetMetadataHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	metadata, err := h.fileUseCase.GetMetadata(c.Request.Context(), fileID, requesterID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMetadataToResponse(metadata))
}

// DeleteHandler removes a file.
// DELETE /v1/files/:id - Owner only. Returns 204 No Content.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), fileID, requesterID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ShareHandler grants access to several users.
// POST /v1/files/:id/shares - Owner only. Returns 200 OK with per-entry results;
// rejected entries are listed under errors and do not affect the others.
func (h *FileHandler) ShareHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	outcomes, err := h.fileUseCase.Share(c.Request.Context(), fileID, requesterID, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOutcomesToShareResponse(outcomes))
}

// ListSharesHandler lists the grants on a file.
// GET /v1/files/:id/shares - Owner only.
func (h *FileHandler) ListSharesHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	grants, err := h.fileUseCase.ListShares(c.Request.Context(), fileID, requesterID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantsToListResponse(grants))
}

// RevokeShareHandler removes the grant of a user.
// DELETE /v1/files/:id/shares/:username - Owner only. Returns 204 No Content.
func (h *FileHandler) RevokeShareHandler(c *gin.Context) {
	requesterID, ok := requireRequester(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseFileID(c, h.logger)
	if !ok {
		return
	}

	err := h.fileUseCase.RevokeShare(c.Request.Context(), fileID, requesterID, c.Param("username"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *FileHandler) payloadTooLarge(c *gin.Context) {
	h.logger.Warn("upload rejected", slog.Int64("max_bytes", h.maxUploadBytes))
	c.JSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
		Error:   "payload_too_large",
		Message: fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes),
	})
}

// readFormFile reads the whole uploaded part.
func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, nil
}
