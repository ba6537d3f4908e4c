// Package dto provides data transfer objects for file HTTP requests and responses.
package dto

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// UploadForm holds the non-file multipart fields of an upload.
// Salt and IV are standard Base64.
type UploadForm struct {
	Salt string `form:"salt" json:"salt"`
	IV   string `form:"iv"   json:"iv"`
}

// Validate checks that salt and iv decode to the required lengths.
func (f *UploadForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Salt, validation.Required, customValidation.Base64Length(cryptoDomain.SaltSize)),
		validation.Field(&f.IV, validation.Required, customValidation.Base64Length(cryptoDomain.NonceSize)),
	)
}

// Decode returns the raw salt and nonce. Call Validate first.
func (f *UploadForm) Decode() (salt, nonce []byte, err error) {
	if salt, err = base64.StdEncoding.DecodeString(f.Salt); err != nil {
		return nil, nil, err
	}
	if nonce, err = base64.StdEncoding.DecodeString(f.IV); err != nil {
		return nil, nil, err
	}
	return salt, nonce, nil
}

// ShareEntry is one share target.
type ShareEntry struct {
	Username   string `json:"username"`
	AccessType string `json:"access_type"`
}

// ShareRequest contains the share targets of a file.
// Entries are validated one by one by the use case so a bad entry does not reject the others.
type ShareRequest struct {
	Shares []ShareEntry `json:"shares"`
}

// Validate checks that the request carries between 1 and 100 entries.
func (r *ShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Shares, validation.Required, validation.Length(1, 100)),
	)
}

// ToDomain converts the request into share requests.
func (r *ShareRequest) ToDomain() []filesDomain.ShareRequest {
	entries := make([]filesDomain.ShareRequest, 0, len(r.Shares))
	for _, s := range r.Shares {
		entries = append(entries, filesDomain.ShareRequest{
			Username:    s.Username,
			AccessLevel: s.AccessType,
		})
	}
	return entries
}

// PublicLinkRequest contains the optional validity of a new public link.
// A missing or zero HoursValid means the configured default.
type PublicLinkRequest struct {
	HoursValid int `json:"hours_valid"`
}

// Validate checks if the public link request is valid.
func (r *PublicLinkRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.HoursValid, validation.Min(0)),
	)
}
