package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// MySQLFileRepository handles file metadata persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLFileRepository struct {
	db *sql.DB
}

// NewMySQLFileRepository creates a new MySQLFileRepository.
func NewMySQLFileRepository(db *sql.DB) *MySQLFileRepository {
	return &MySQLFileRepository{db: db}
}

func uuidBytes(id uuid.UUID) ([]byte, error) {
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal uuid")
	}
	return b, nil
}

func parseUUIDBytes(b []byte) (uuid.UUID, error) {
	var id uuid.UUID
	if err := id.UnmarshalBinary(b); err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to unmarshal uuid")
	}
	return id, nil
}

// Create inserts a file row. A duplicate salt returns ErrSaltInUse.
func (r *MySQLFileRepository) Create(ctx context.Context, file *filesDomain.File) error {
	querier := database.GetTx(ctx, r.db)

	id, err := uuidBytes(file.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuidBytes(file.OwnerID)
	if err != nil {
		return err
	}

	query := `INSERT INTO files (id, owner_id, file_name, salt, nonce, uploaded_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		id, ownerID, file.FileName, encodeBytes(file.Salt), encodeBytes(file.Nonce), file.UploadedAt,
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
func (r *MySQLFileRepository) Get(ctx context.Context, id uuid.UUID) (*filesDomain.File, error) {
	idBytes, err := uuidBytes(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	return r.scanOne(ctx, query, idBytes, filesDomain.ErrFileNotFound)
}

// GetByPublicToken retrieves the file holding a public token.
func (r *MySQLFileRepository) GetByPublicToken(ctx context.Context, token string) (*filesDomain.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE public_token = ?`
	return r.scanOne(ctx, query, token, filesDomain.ErrPublicLinkNotFound)
}

func (r *MySQLFileRepository) scanOne(
	ctx context.Context,
	query string,
	arg any,
	notFound error,
) (*filesDomain.File, error) {
	var file filesDomain.File
	var row fileRow
	var id, ownerID []byte
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&id, &ownerID, &file.FileName, &row.salt, &row.nonce,
		&file.UploadedAt, &row.publicToken, &row.publicTokenExp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(err, "failed to get file")
	}

	if file.ID, err = parseUUIDBytes(id); err != nil {
		return nil, err
	}
	if file.OwnerID, err = parseUUIDBytes(ownerID); err != nil {
		return nil, err
	}
	if err := row.apply(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// SetPublicLink stores token when the file has no link or its link expired at now.
func (r *MySQLFileRepository) SetPublicLink(
	ctx context.Context,
	id uuid.UUID,
	token string,
	expiresAt, now time.Time,
) (bool, error) {
	idBytes, err := uuidBytes(id)
	if err != nil {
		return false, err
	}
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE files SET public_token = ?, public_token_expires_at = ?
			  WHERE id = ? AND (public_token IS NULL OR public_token_expires_at < ?)`

	res, err := querier.ExecContext(ctx, query, token, expiresAt, idBytes, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to set public link")
	}
	return affected(res)
}

// ClearPublicLink clears the link only while the file still holds token.
func (r *MySQLFileRepository) ClearPublicLink(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	idBytes, err := uuidBytes(id)
	if err != nil {
		return false, err
	}
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE files SET public_token = NULL, public_token_expires_at = NULL
			  WHERE id = ? AND public_token = ?`

	res, err := querier.ExecContext(ctx, query, idBytes, token)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to clear public link")
	}
	return affected(res)
}

// ListForUser returns files owned by or shared with userID, newest first.
func (r *MySQLFileRepository) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	userBytes, err := uuidBytes(userID)
	if err != nil {
		return nil, err
	}

	query, args, err := listForUserQuery(userBytes, userBytes, offset, limit).ToSql()
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
		var id, ownerID []byte
		var level, token sql.NullString
		var expires sql.NullTime

		if err := rows.Scan(
			&id, &ownerID, &s.OwnerUsername, &s.FileName, &s.UploadedAt, &level, &token, &expires,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file")
		}
		if s.ID, err = parseUUIDBytes(id); err != nil {
			return nil, err
		}
		if s.OwnerID, err = parseUUIDBytes(ownerID); err != nil {
			return nil, err
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
func (r *MySQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	idBytes, err := uuidBytes(id)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, idBytes)
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
