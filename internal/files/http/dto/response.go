package dto

import (
	"encoding/base64"
	"errors"
	"time"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	FileID     string    `json:"file_id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MapFileToUploadResponse converts an uploaded file to a response.
func MapFileToUploadResponse(file *filesDomain.File) UploadResponse {
	return UploadResponse{
		FileID:     file.ID.String(),
		FileName:   file.FileName,
		UploadedAt: file.UploadedAt,
	}
}

// FileSummaryResponse is one row of a file listing.
// The public link fields are only present on files the requester owns.
type FileSummaryResponse struct {
	ID                   string     `json:"id"`
	FileName             string     `json:"file_name"`
	Owner                string     `json:"owner"`
	UploadedAt           time.Time  `json:"uploaded_at"`
	AccessType           string     `json:"access_type"`
	PublicToken          *string    `json:"public_token,omitempty"`
	PublicTokenExpiresAt *time.Time `json:"public_token_expires_at,omitempty"`
}

// ListFilesResponse wraps a file listing.
type ListFilesResponse struct {
	Files []FileSummaryResponse `json:"files"`
}

// MapSummariesToListResponse converts a listing to a response.
func MapSummariesToListResponse(summaries []*filesDomain.FileSummary) ListFilesResponse {
	files := make([]FileSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		files = append(files, FileSummaryResponse{
			ID:                   s.ID.String(),
			FileName:             s.FileName,
			Owner:                s.OwnerUsername,
			UploadedAt:           s.UploadedAt,
			AccessType:           s.AccessLevel.String(),
			PublicToken:          s.PublicToken,
			PublicTokenExpiresAt: s.PublicTokenExpiresAt,
		})
	}
	return ListFilesResponse{Files: files}
}

// MetadataResponse carries what a client needs to present a file.
// AccessType is omitted on the public path.
type MetadataResponse struct {
	FileID     string    `json:"file_id"`
	FileName   string    `json:"file_name"`
	Salt       string    `json:"salt"`
	IV         string    `json:"iv"`
	MimeType   string    `json:"mime_type"`
	AccessType string    `json:"access_type,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MapMetadataToResponse converts metadata for an authenticated requester.
func MapMetadataToResponse(m *filesDomain.Metadata) MetadataResponse {
	resp := MapPublicMetadataToResponse(m)
	resp.AccessType = m.AccessLevel.String()
	return resp
}

// MapPublicMetadataToResponse converts metadata resolved through a public link.
func MapPublicMetadataToResponse(m *filesDomain.Metadata) MetadataResponse {
	return MetadataResponse{
		FileID:     m.FileID.String(),
		FileName:   m.FileName,
		Salt:       base64.StdEncoding.EncodeToString(m.Salt),
		IV:         base64.StdEncoding.EncodeToString(m.Nonce),
		MimeType:   m.MimeType,
		UploadedAt: m.UploadedAt,
	}
}

// ShareResultResponse is a successful share entry.
type ShareResultResponse struct {
	Username   string `json:"username"`
	AccessType string `json:"access_type"`
}

// ShareErrorResponse is a rejected share entry.
type ShareErrorResponse struct {
	Index    int    `json:"index"`
	Username string `json:"username"`
	Error    string `json:"error"`
}

// ShareResponse reports every entry of a share call.
type ShareResponse struct {
	Shared []ShareResultResponse `json:"shared"`
	Errors []ShareErrorResponse  `json:"errors"`
}

// MapOutcomesToShareResponse splits share outcomes into successes and rejections.
func MapOutcomesToShareResponse(outcomes []filesDomain.ShareOutcome) ShareResponse {
	resp := ShareResponse{
		Shared: make([]ShareResultResponse, 0, len(outcomes)),
		Errors: make([]ShareErrorResponse, 0),
	}
	for i, o := range outcomes {
		if o.Err == nil {
			resp.Shared = append(resp.Shared, ShareResultResponse{
				Username:   o.Username,
				AccessType: o.AccessLevel.String(),
			})
			continue
		}

		entry := ShareErrorResponse{Index: i, Username: o.Username, Error: o.Err.Error()}
		var entryErr *filesDomain.ShareEntryError
		if errors.As(o.Err, &entryErr) {
			entry.Index = entryErr.Index
			entry.Error = entryErr.Err.Error()
		}
		resp.Errors = append(resp.Errors, entry)
	}
	return resp
}

// GrantResponse is one grant on a file.
type GrantResponse struct {
	Username   string    `json:"username"`
	AccessType string    `json:"access_type"`
	GrantedAt  time.Time `json:"granted_at"`
}

// ListSharesResponse wraps the grants on a file.
type ListSharesResponse struct {
	Shares []GrantResponse `json:"shares"`
}

// MapGrantsToListResponse converts grants to a response.
func MapGrantsToListResponse(grants []*filesDomain.ShareGrant) ListSharesResponse {
	shares := make([]GrantResponse, 0, len(grants))
	for _, g := range grants {
		shares = append(shares, GrantResponse{
			Username:   g.Username,
			AccessType: g.AccessLevel.String(),
			GrantedAt:  g.GrantedAt,
		})
	}
	return ListSharesResponse{Shares: shares}
}

// PublicLinkResponse describes an issued public link.
type PublicLinkResponse struct {
	FileID    string    `json:"file_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapPublicLinkToResponse converts a public link to a response.
func MapPublicLinkToResponse(link *filesDomain.PublicLink) PublicLinkResponse {
	return PublicLinkResponse{
		FileID:    link.FileID.String(),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt,
	}
}
