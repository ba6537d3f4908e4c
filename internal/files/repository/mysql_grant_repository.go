package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// MySQLGrantRepository handles share grant persistence for MySQL.
type MySQLGrantRepository struct {
	db *sql.DB
}

// NewMySQLGrantRepository creates a new MySQLGrantRepository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}

// Upsert creates the grant or replaces the access level of an existing one.
func (r *MySQLGrantRepository) Upsert(ctx context.Context, grant *filesDomain.ShareGrant) error {
	fileID, err := uuidBytes(grant.FileID)
	if err != nil {
		return err
	}
	userID, err := uuidBytes(grant.UserID)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO file_shares (file_id, user_id, access_level, granted_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE access_level = VALUES(access_level), granted_at = VALUES(granted_at)`

	_, err = querier.ExecContext(ctx, query, fileID, userID, grant.AccessLevel.String(), grant.GrantedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert share")
	}
	return nil
}

// Get returns the grant of userID on fileID.
func (r *MySQLGrantRepository) Get(
	ctx context.Context,
	fileID, userID uuid.UUID,
) (*filesDomain.ShareGrant, error) {
	fileBytes, err := uuidBytes(fileID)
	if err != nil {
		return nil, err
	}
	userBytes, err := uuidBytes(userID)
	if err != nil {
		return nil, err
	}

	var grant filesDomain.ShareGrant
	var level string
	querier := database.GetTx(ctx, r.db)

	query := `SELECT u.username, s.access_level, s.granted_at
			  FROM file_shares s JOIN users u ON u.id = s.user_id
			  WHERE s.file_id = ? AND s.user_id = ?`

	err = querier.QueryRowContext(ctx, query, fileBytes, userBytes).Scan(
		&grant.Username, &level, &grant.GrantedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, filesDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}

	grant.FileID = fileID
	grant.UserID = userID
	if err := applyGrantLevel(&grant, level); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Delete removes the grant of userID on fileID.
func (r *MySQLGrantRepository) Delete(ctx context.Context, fileID, userID uuid.UUID) error {
	fileBytes, err := uuidBytes(fileID)
	if err != nil {
		return err
	}
	userBytes, err := uuidBytes(userID)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx,
		`DELETE FROM file_shares WHERE file_id = ? AND user_id = ?`, fileBytes, userBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return filesDomain.ErrGrantNotFound
	}
	return nil
}

// ListByFile returns the grants on fileID ordered by grantee username.
func (r *MySQLGrantRepository) ListByFile(
	ctx context.Context,
	fileID uuid.UUID,
) ([]*filesDomain.ShareGrant, error) {
	fileBytes, err := uuidBytes(fileID)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, r.db)

	query := `SELECT s.user_id, u.username, s.access_level, s.granted_at
			  FROM file_shares s JOIN users u ON u.id = s.user_id
			  WHERE s.file_id = ?
			  ORDER BY u.username ASC`

	rows, err := querier.QueryContext(ctx, query, fileBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer func() {
		_ = rows.Close()
	}()

	grants := make([]*filesDomain.ShareGrant, 0)
	for rows.Next() {
		var grant filesDomain.ShareGrant
		var userID []byte
		var level string

		if err := rows.Scan(&userID, &grant.Username, &level, &grant.GrantedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
		if grant.UserID, err = parseUUIDBytes(userID); err != nil {
			return nil, err
		}
		grant.FileID = fileID
		if err := applyGrantLevel(&grant, level); err != nil {
			return nil, err
		}
		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating shares")
	}
	return grants, nil
}
