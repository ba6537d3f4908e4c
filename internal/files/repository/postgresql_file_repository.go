package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// PostgreSQLFileRepository handles file metadata persistence for PostgreSQL.
type PostgreSQLFileRepository struct {
	db *sql.DB
}

// NewPostgreSQLFileRepository creates a new PostgreSQLFileRepository.
func NewPostgreSQLFileRepository(db *sql.DB) *PostgreSQLFileRepository {
	return &PostgreSQLFileRepository{db: db}
}

// Create inserts a file row. A duplicate salt returns ErrSaltInUse.
func (r *PostgreSQLFileRepository) Create(ctx context.Context, file *filesDomain.File) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO files (id, owner_id, file_name, salt, nonce, uploaded_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query,
		file.ID, file.OwnerID, file.FileName, encodeBytes(file.Salt), encodeBytes(file.Nonce), file.UploadedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return filesDomain.ErrSaltInUse
		}
		return apperrors.Wrap(err, "failed to create file")
	}
	return nil
}

// Get retrieves a file by ID.
func (r *PostgreSQLFileRepository) Get(ctx context.Context, id uuid.UUID) (*filesDomain.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return r.scanOne(ctx, query, id, filesDomain.ErrFileNotFound)
}

// GetByPublicToken retrieves the file holding a public token.
func (r *PostgreSQLFileRepository) GetByPublicToken(ctx context.Context, token string) (*filesDomain.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE public_token = $1`
	return r.scanOne(ctx, query, token, filesDomain.ErrPublicLinkNotFound)
}

func (r *PostgreSQLFileRepository) scanOne(
	ctx context.Context,
	query string,
	arg any,
	notFound error,
) (*filesDomain.File, error) {
	var file filesDomain.File
	var row fileRow
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&file.ID, &file.OwnerID, &file.FileName, &row.salt, &row.nonce,
		&file.UploadedAt, &row.publicToken, &row.publicTokenExp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(err, "failed to get file")
	}

	if err := row.apply(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// SetPublicLink stores token when the file has no link or its link expired at now.
func (r *PostgreSQLFileRepository) SetPublicLink(
	ctx context.Context,
	id uuid.UUID,
	token string,
	expiresAt, now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE files SET public_token = $1, public_token_expires_at = $2
			  WHERE id = $3 AND (public_token IS NULL OR public_token_expires_at < $4)`

	res, err := querier.ExecContext(ctx, query, token, expiresAt, id, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to set public link")
	}
	return affected(res)
}

// ClearPublicLink clears the link only while the file still holds token.
func (r *PostgreSQLFileRepository) ClearPublicLink(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE files SET public_token = NULL, public_token_expires_at = NULL
			  WHERE id = $1 AND public_token = $2`

	res, err := querier.ExecContext(ctx, query, id, token)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to clear public link")
	}
	return affected(res)
}

// ListForUser returns files owned by or shared with userID, newest first.
func (r *PostgreSQLFileRepository) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	query, args, err := listForUserQuery(userID, userID, offset, limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build file listing query")
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	defer func() {
		_ = rows.Close()
	}()

	summaries := make([]*filesDomain.FileSummary, 0)
	for rows.Next() {
		var s filesDomain.FileSummary
		var level, token sql.NullString
		var expires sql.NullTime

		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.OwnerUsername, &s.FileName, &s.UploadedAt, &level, &token, &expires,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file")
		}

		s.UploadedAt = s.UploadedAt.UTC()
		s.AccessLevel = summaryLevel(s.OwnerID == userID, level)
		s.PublicToken, s.PublicTokenExpiresAt = nullableLink(token, expires)
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating files")
	}
	return summaries, nil
}

// Delete removes a file row. Grants cascade.
func (r *PostgreSQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file")
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return filesDomain.ErrFileNotFound
	}
	return nil
}

// listForUserQuery selects files the user owns or holds a grant on. ownerArg and shareArg are
// the dialect-specific encodings of the same user id.
func listForUserQuery(ownerArg, shareArg any, offset, limit int) sq.SelectBuilder {
	return sq.Select(
		"f.id", "f.owner_id", "u.username", "f.file_name", "f.uploaded_at",
		"s.access_level", "f.public_token", "f.public_token_expires_at",
	).
		From("files f").
		Join("users u ON u.id = f.owner_id").
		LeftJoin("file_shares s ON s.file_id = f.id AND s.user_id = ?", shareArg).
		Where(sq.Or{
			sq.Expr("f.owner_id = ?", ownerArg),
			sq.NotEq{"s.user_id": nil},
		}).
		OrderBy("f.uploaded_at DESC", "f.id DESC").
		Limit(uint64(limit)).  //nolint:gosec // validated by the handler
		Offset(uint64(offset)) //nolint:gosec // validated by the handler
}
