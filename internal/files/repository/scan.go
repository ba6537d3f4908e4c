// Package repository provides PostgreSQL and MySQL persistence for files and share grants.
package repository

import (
	"database/sql"
	"encoding/base64"
	"time"

	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// fileColumns is the column list shared by single-file reads.
const fileColumns = `id, owner_id, file_name, salt, nonce, uploaded_at, public_token, public_token_expires_at`

// encodeBytes returns the standard Base64 text stored for salts and nonces.
func encodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// fileRow holds the nullable and encoded columns of a files row before conversion.
type fileRow struct {
	salt           string
	nonce          string
	publicToken    sql.NullString
	publicTokenExp sql.NullTime
}

// apply decodes the row into file.
func (r *fileRow) apply(file *filesDomain.File) error {
	var err error
	if file.Salt, err = base64.StdEncoding.DecodeString(r.salt); err != nil {
		return apperrors.Wrap(err, "failed to decode stored salt")
	}
	if file.Nonce, err = base64.StdEncoding.DecodeString(r.nonce); err != nil {
		return apperrors.Wrap(err, "failed to decode stored nonce")
	}
	file.PublicToken, file.PublicTokenExpiresAt = nullableLink(r.publicToken, r.publicTokenExp)
	file.UploadedAt = file.UploadedAt.UTC()
	return nil
}

// nullableLink converts the link columns, treating a half-set pair as no link.
func nullableLink(token sql.NullString, expiresAt sql.NullTime) (*string, *time.Time) {
	if !token.Valid || !expiresAt.Valid {
		return nil, nil
	}
	t := token.String
	e := expiresAt.Time.UTC()
	return &t, &e
}

// summaryLevel converts the joined access_level column of a listing row.
func summaryLevel(isOwner bool, level sql.NullString) filesDomain.AccessLevel {
	if isOwner {
		return filesDomain.AccessOwner
	}
	if !level.Valid {
		return filesDomain.AccessNone
	}
	parsed, err := filesDomain.ParseGrantLevel(level.String)
	if err != nil {
		return filesDomain.AccessNone
	}
	return parsed
}

// affected reports whether res changed at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

// applyGrantLevel parses the stored access_level column into grant.
func applyGrantLevel(grant *filesDomain.ShareGrant, level string) error {
	parsed, err := filesDomain.ParseGrantLevel(level)
	if err != nil {
		return apperrors.Wrapf(err, "invalid stored access level %q", level)
	}
	grant.AccessLevel = parsed
	grant.GrantedAt = grant.GrantedAt.UTC()
	return nil
}
