package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// PublicLinkConfig bounds the validity of issued links, in hours.
type PublicLinkConfig struct {
	DefaultHours int
	MaxHours     int
}

// publicLinkUseCase implements PublicLinkUseCase.
type publicLinkUseCase struct {
	txManager database.TxManager
	files     FileRepository
	blobs     BlobStore
	cipher    cryptoService.FileCipher
	tokens    TokenGenerator
	cfg       PublicLinkConfig
	clock     Clock
	logger    *slog.Logger
}

// NewPublicLinkUseCase creates a PublicLinkUseCase.
func NewPublicLinkUseCase(
	txManager database.TxManager,
	files FileRepository,
	blobs BlobStore,
	cipher cryptoService.FileCipher,
	tokens TokenGenerator,
	cfg PublicLinkConfig,
	clock Clock,
	logger *slog.Logger,
) PublicLinkUseCase {
	return &publicLinkUseCase{
		txManager: txManager,
		files:     files,
		blobs:     blobs,
		cipher:    cipher,
		tokens:    tokens,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
	}
}

// ownedFile loads a file the requester owns. Anything else is ErrAccessDenied.
func (uc *publicLinkUseCase) ownedFile(ctx context.Context, fileID, requesterID uuid.UUID) (*filesDomain.File, error) {
	file, err := uc.files.Get(ctx, fileID)
	if err != nil {
		if apperrors.Is(err, filesDomain.ErrFileNotFound) {
			return nil, filesDomain.ErrAccessDenied
		}
		return nil, err
	}
	if requesterID == uuid.Nil || file.OwnerID != requesterID {
		return nil, filesDomain.ErrAccessDenied
	}
	return file, nil
}

func (uc *publicLinkUseCase) validityHours(hoursValid int) (int, error) {
	if hoursValid == 0 {
		return uc.cfg.DefaultHours, nil
	}
	if hoursValid < 0 || hoursValid > uc.cfg.MaxHours {
		return 0, filesDomain.ErrInvalidHoursValid
	}
	return hoursValid, nil
}

// Issue returns the file's active link unchanged, ignoring hoursValid, or stores a new one with a
// conditional update.
// When a concurrent issuer wins the update, its token is returned.
func (uc *publicLinkUseCase) Issue(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
	hoursValid int,
) (*filesDomain.PublicLink, error) {
	file, err := uc.ownedFile(ctx, fileID, requesterID)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	if file.LinkState(now) == filesDomain.LinkActive {
		return activeLink(file), nil
	}

	hours, err := uc.validityHours(hoursValid)
	if err != nil {
		return nil, err
	}

	token, err := uc.tokens.GenerateToken()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(time.Duration(hours) * time.Hour).UTC()

	updated, err := uc.files.SetPublicLink(ctx, file.ID, token, expiresAt, now)
	if err != nil {
		return nil, err
	}
	if updated {
		return &filesDomain.PublicLink{FileID: file.ID, Token: token, ExpiresAt: expiresAt}, nil
	}

	winner, err := uc.files.Get(ctx, file.ID)
	if err != nil {
		return nil, err
	}
	if winner.LinkState(uc.clock()) != filesDomain.LinkActive {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "public link changed concurrently")
	}
	return activeLink(winner), nil
}

func activeLink(file *filesDomain.File) *filesDomain.PublicLink {
	return &filesDomain.PublicLink{
		FileID:    file.ID,
		Token:     *file.PublicToken,
		ExpiresAt: *file.PublicTokenExpiresAt,
	}
}

// resolve finds the file holding an active token.
func (uc *publicLinkUseCase) resolve(ctx context.Context, token string) (*filesDomain.File, error) {
	if token == "" {
		return nil, filesDomain.ErrPublicLinkNotFound
	}

	file, err := uc.files.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch file.LinkState(uc.clock()) {
	case filesDomain.LinkActive:
		return file, nil
	case filesDomain.LinkExpired:
		return nil, filesDomain.ErrPublicLinkExpired
	default:
		return nil, filesDomain.ErrPublicLinkNotFound
	}
}

// GetMetadata resolves a token without consuming it. Public holders see view-level metadata.
func (uc *publicLinkUseCase) GetMetadata(ctx context.Context, token string) (*filesDomain.Metadata, error) {
	file, err := uc.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return buildMetadata(file, filesDomain.AccessView), nil
}

// GetContent consumes the token and decrypts the file in one transaction. Only one concurrent
// caller can clear the token; the others get ErrPublicLinkNotFound. A decryption failure rolls
// the clear back so the link stays usable.
func (uc *publicLinkUseCase) GetContent(ctx context.Context, token string) (*filesDomain.Content, error) {
	var content *filesDomain.Content

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		file, err := uc.resolve(ctx, token)
		if err != nil {
			return err
		}

		cleared, err := uc.files.ClearPublicLink(ctx, file.ID, token)
		if err != nil {
			return err
		}
		if !cleared {
			return filesDomain.ErrPublicLinkNotFound
		}

		content, err = decryptContent(ctx, uc.blobs, uc.cipher, file)
		if err != nil {
			return err
		}

		uc.logger.Info("public link consumed", slog.String("file_id", file.ID.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

// Revoke clears the link holding token. Possession of the token is the capability,
// so no requester check is made. Unknown or already cleared tokens succeed.
func (uc *publicLinkUseCase) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	file, err := uc.files.GetByPublicToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, filesDomain.ErrPublicLinkNotFound) {
			return nil
		}
		return err
	}

	if _, err := uc.files.ClearPublicLink(ctx, file.ID, token); err != nil {
		return err
	}
	return nil
}

// RevokeForFile clears the link of an owned file. Files without a link succeed.
func (uc *publicLinkUseCase) RevokeForFile(ctx context.Context, fileID, requesterID uuid.UUID) error {
	file, err := uc.ownedFile(ctx, fileID, requesterID)
	if err != nil {
		return err
	}
	if file.PublicToken == nil {
		return nil
	}

	if _, err := uc.files.ClearPublicLink(ctx, file.ID, *file.PublicToken); err != nil {
		return err
	}
	return nil
}
