package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
	userDomain "github.com/allisson/filevault/internal/user/domain"
	appValidation "github.com/allisson/filevault/internal/validation"
)

// maxFileNameLength bounds the display name stored with a file.
const maxFileNameLength = 255

// fileUseCase implements FileUseCase.
type fileUseCase struct {
	txManager database.TxManager
	files     FileRepository
	grants    GrantRepository
	blobs     BlobStore
	users     UserDirectory
	cipher    cryptoService.FileCipher
	resolver  *AccessResolver
	clock     Clock
	logger    *slog.Logger
}

// NewFileUseCase creates a FileUseCase.
func NewFileUseCase(
	txManager database.TxManager,
	files FileRepository,
	grants GrantRepository,
	blobs BlobStore,
	users UserDirectory,
	cipher cryptoService.FileCipher,
	clock Clock,
	logger *slog.Logger,
) FileUseCase {
	return &fileUseCase{
		txManager: txManager,
		files:     files,
		grants:    grants,
		blobs:     blobs,
		users:     users,
		cipher:    cipher,
		resolver:  NewAccessResolver(grants),
		clock:     clock,
		logger:    logger,
	}
}

func validateUploadInput(input *UploadInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.FileName,
			validation.Required.Error("file name is required"),
			appValidation.NotBlank,
			validation.RuneLength(1, maxFileNameLength),
		),
		validation.Field(&input.Content, validation.Required.Error("file content must not be empty")),
		validation.Field(&input.Salt,
			validation.Required.Error("salt is required"),
			validation.Length(cryptoDomain.SaltSize, cryptoDomain.SaltSize).
				Error("salt must be exactly 16 bytes"),
		),
		validation.Field(&input.Nonce,
			validation.Required.Error("iv is required"),
			validation.Length(cryptoDomain.NonceSize, cryptoDomain.NonceSize).
				Error("iv must be exactly 12 bytes"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Upload encrypts and stores a file. The blob is written first and removed again if the row
// cannot be inserted, so a failed upload leaves nothing visible.
func (uc *fileUseCase) Upload(ctx context.Context, input UploadInput) (*filesDomain.File, error) {
	if input.OwnerID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner is required")
	}
	input.FileName = strings.TrimSpace(input.FileName)
	if err := validateUploadInput(&input); err != nil {
		return nil, err
	}

	ciphertext, err := uc.cipher.Encrypt(input.Salt, input.Nonce, input.Content)
	if err != nil {
		return nil, err
	}

	file := &filesDomain.File{
		ID:         uuid.Must(uuid.NewV7()),
		OwnerID:    input.OwnerID,
		FileName:   input.FileName,
		Ciphertext: ciphertext,
		Salt:       append([]byte(nil), input.Salt...),
		Nonce:      append([]byte(nil), input.Nonce...),
		UploadedAt: uc.clock().UTC(),
	}

	if err := uc.blobs.Put(ctx, file.BlobKey(), ciphertext); err != nil {
		return nil, apperrors.Wrap(err, "failed to store file content")
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.files.Create(ctx, file)
	})
	if err != nil {
		if delErr := uc.blobs.Delete(ctx, file.BlobKey()); delErr != nil {
			uc.logger.Warn("failed to remove orphaned blob",
				slog.String("file_id", file.ID.String()),
				slog.Any("error", delErr))
		}
		return nil, err
	}

	return file, nil
}

// List returns the requester's visible files. Public link details are only kept on owned files.
func (uc *fileUseCase) List(
	ctx context.Context,
	requesterID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	summaries, err := uc.files.ListForUser(ctx, requesterID, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		if s.OwnerID == requesterID {
			s.AccessLevel = filesDomain.AccessOwner
			continue
		}
		s.PublicToken = nil
		s.PublicTokenExpiresAt = nil
	}
	return summaries, nil
}

// authorize loads a file and checks the requester's access with allowed.
// Missing files and insufficient access both surface as ErrAccessDenied.
func (uc *fileUseCase) authorize(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
	allowed func(filesDomain.AccessLevel) bool,
) (*filesDomain.File, filesDomain.AccessLevel, error) {
	file, err := uc.files.Get(ctx, fileID)
	if err != nil {
		if apperrors.Is(err, filesDomain.ErrFileNotFound) {
			return nil, filesDomain.AccessNone, filesDomain.ErrAccessDenied
		}
		return nil, filesDomain.AccessNone, err
	}

	level, err := uc.resolver.ResolveAccess(ctx, file, requesterID)
	if err != nil {
		return nil, filesDomain.AccessNone, err
	}
	if !allowed(level) {
		return nil, level, filesDomain.ErrAccessDenied
	}
	return file, level, nil
}

// GetContent decrypts the file for a requester with download access.
func (uc *fileUseCase) GetContent(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
) (*filesDomain.Content, error) {
	file, _, err := uc.authorize(ctx, fileID, requesterID, filesDomain.AccessLevel.CanDownload)
	if err != nil {
		return nil, err
	}
	return decryptContent(ctx, uc.blobs, uc.cipher, file)
}

// GetMetadata returns metadata for a requester with at least view access.
func (uc *fileUseCase) GetMetadata(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
) (*filesDomain.Metadata, error) {
	file, level, err := uc.authorize(ctx, fileID, requesterID, filesDomain.AccessLevel.CanViewMetadata)
	if err != nil {
		return nil, err
	}
	return buildMetadata(file, level), nil
}

// Share validates and applies each entry independently. Validation failures are reported per
// entry as *ShareEntryError. Repository failures abort the call.
func (uc *fileUseCase) Share(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
	entries []filesDomain.ShareRequest,
) ([]filesDomain.ShareOutcome, error) {
	file, _, err := uc.authorize(ctx, fileID, ownerID, filesDomain.AccessLevel.CanManage)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, filesDomain.ErrNoShareEntries
	}

	outcomes := make([]filesDomain.ShareOutcome, 0, len(entries))
	for i, entry := range entries {
		username := strings.TrimSpace(entry.Username)
		level, err := uc.shareOne(ctx, file, username, entry.AccessLevel)
		if err != nil && !apperrors.Is(err, apperrors.ErrInvalidInput) {
			return nil, err
		}

		outcome := filesDomain.ShareOutcome{Username: username, AccessLevel: level}
		if err != nil {
			outcome.Err = &filesDomain.ShareEntryError{Index: i, Username: username, Err: err}
			uc.logger.Info("share entry rejected",
				slog.String("file_id", file.ID.String()),
				slog.Int("index", i),
				slog.String("username", username),
				slog.String("reason", err.Error()))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// shareOne applies a single entry. Errors wrapping ErrInvalidInput reject only this entry.
func (uc *fileUseCase) shareOne(
	ctx context.Context,
	file *filesDomain.File,
	username, accessType string,
) (filesDomain.AccessLevel, error) {
	if username == "" {
		return filesDomain.AccessNone, filesDomain.ErrUsernameRequired
	}

	level, err := filesDomain.ParseGrantLevel(accessType)
	if err != nil {
		return filesDomain.AccessNone, err
	}

	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return level, filesDomain.ErrShareUserNotFound
		}
		return level, err
	}
	if user.ID == file.OwnerID {
		return level, filesDomain.ErrShareWithOwner
	}

	return level, uc.grants.Upsert(ctx, &filesDomain.ShareGrant{
		FileID:      file.ID,
		UserID:      user.ID,
		Username:    user.Username,
		AccessLevel: level,
		GrantedAt:   uc.clock().UTC(),
	})
}

// ListShares returns the grants on an owned file.
func (uc *fileUseCase) ListShares(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
) ([]*filesDomain.ShareGrant, error) {
	if _, _, err := uc.authorize(ctx, fileID, ownerID, filesDomain.AccessLevel.CanManage); err != nil {
		return nil, err
	}
	return uc.grants.ListByFile(ctx, fileID)
}

// RevokeShare removes the grant of username on an owned file.
func (uc *fileUseCase) RevokeShare(ctx context.Context, fileID, ownerID uuid.UUID, username string) error {
	if _, _, err := uc.authorize(ctx, fileID, ownerID, filesDomain.AccessLevel.CanManage); err != nil {
		return err
	}

	user, err := uc.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return filesDomain.ErrGrantNotFound
		}
		return err
	}
	return uc.grants.Delete(ctx, fileID, user.ID)
}

// Delete removes the row (grants cascade) and then the ciphertext.
func (uc *fileUseCase) Delete(ctx context.Context, fileID, ownerID uuid.UUID) error {
	file, _, err := uc.authorize(ctx, fileID, ownerID, filesDomain.AccessLevel.CanManage)
	if err != nil {
		return err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.files.Delete(ctx, file.ID)
	})
	if err != nil {
		return err
	}

	if err := uc.blobs.Delete(ctx, file.BlobKey()); err != nil {
		uc.logger.Warn("failed to delete file content",
			slog.String("file_id", file.ID.String()),
			slog.Any("error", err))
	}
	return nil
}

// decryptContent loads the ciphertext of file and decrypts it.
func decryptContent(
	ctx context.Context,
	blobs BlobStore,
	cipher cryptoService.FileCipher,
	file *filesDomain.File,
) (*filesDomain.Content, error) {
	ciphertext := file.Ciphertext
	if ciphertext == nil {
		var err error
		ciphertext, err = blobs.Get(ctx, file.BlobKey())
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to load file content")
		}
	}

	plaintext, err := cipher.Decrypt(file.Salt, file.Nonce, ciphertext)
	if err != nil {
		return nil, err
	}

	return &filesDomain.Content{
		FileName: file.FileName,
		MimeType: filesDomain.MimeTypeFor(file.FileName, filesDomain.DefaultContentMimeType),
		Data:     plaintext,
	}, nil
}

func buildMetadata(file *filesDomain.File, level filesDomain.AccessLevel) *filesDomain.Metadata {
	return &filesDomain.Metadata{
		FileID:      file.ID,
		FileName:    file.FileName,
		Salt:        file.Salt,
		Nonce:       file.Nonce,
		MimeType:    filesDomain.MimeTypeFor(file.FileName, filesDomain.DefaultMetadataMimeType),
		AccessLevel: level,
		UploadedAt:  file.UploadedAt,
	}
}
