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

// PostgreSQLGrantRepository handles share grant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// NewPostgreSQLGrantRepository creates a new PostgreSQLGrantRepository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}

// Upsert creates the grant or replaces the access level of an existing one.
func (r *PostgreSQLGrantRepository) Upsert(ctx context.Context, grant *filesDomain.ShareGrant) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO file_shares (file_id, user_id, access_level, granted_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (file_id, user_id)
			  DO UPDATE SET access_level = EXCLUDED.access_level, granted_at = EXCLUDED.granted_at`

	_, err := querier.ExecContext(ctx, query,
		grant.FileID, grant.UserID, grant.AccessLevel.String(), grant.GrantedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert share")
	}
	return nil
}

// Get returns the grant of userID on fileID.
func (r *PostgreSQLGrantRepository) Get(
	ctx context.Context,
	fileID, userID uuid.UUID,
) (*filesDomain.ShareGrant, error) {
	var grant filesDomain.ShareGrant
	var level string
	querier := database.GetTx(ctx, r.db)

	query := `SELECT s.file_id, s.user_id, u.username, s.access_level, s.granted_at
			  FROM file_shares s JOIN users u ON u.id = s.user_id
			  WHERE s.file_id = $1 AND s.user_id = $2`

	err := querier.QueryRowContext(ctx, query, fileID, userID).Scan(
		&grant.FileID, &grant.UserID, &grant.Username, &level, &grant.GrantedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, filesDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}

	if err := applyGrantLevel(&grant, level); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Delete removes the grant of userID on fileID.
func (r *PostgreSQLGrantRepository) Delete(ctx context.Context, fileID, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx,
		`DELETE FROM file_shares WHERE file_id = $1 AND user_id = $2`, fileID, userID,
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
func (r *PostgreSQLGrantRepository) ListByFile(
	ctx context.Context,
	fileID uuid.UUID,
) ([]*filesDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT s.file_id, s.user_id, u.username, s.access_level, s.granted_at
			  FROM file_shares s JOIN users u ON u.id = s.user_id
			  WHERE s.file_id = $1
			  ORDER BY u.username ASC`

	rows, err := querier.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer func() {
		_ = rows.Close()
	}()

	grants := make([]*filesDomain.ShareGrant, 0)
	for rows.Next() {
		var grant filesDomain.ShareGrant
		var level string

		if err := rows.Scan(
			&grant.FileID, &grant.UserID, &grant.Username, &level, &grant.GrantedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
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
