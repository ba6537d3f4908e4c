package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
	"github.com/allisson/filevault/internal/metrics"
)

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{next: useCase, metrics: m}
}

func (f *fileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	f.metrics.RecordOperation(ctx, "files", operation, status)
	f.metrics.RecordDuration(ctx, "files", operation, time.Since(start), status)
}

// Upload records metrics for file uploads.
func (f *fileUseCaseWithMetrics) Upload(ctx context.Context, input UploadInput) (*filesDomain.File, error) {
	start := time.Now()
	file, err := f.next.Upload(ctx, input)
	f.record(ctx, "file_upload", start, err)
	if err == nil {
		f.metrics.RecordBytes(ctx, "files", "file_upload", len(input.Content))
	}
	return file, err
}

// List records metrics for file listings.
func (f *fileUseCaseWithMetrics) List(
	ctx context.Context,
	requesterID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	start := time.Now()
	files, err := f.next.List(ctx, requesterID, offset, limit)
	f.record(ctx, "file_list", start, err)
	return files, err
}

// GetContent records metrics for content downloads.
func (f *fileUseCaseWithMetrics) GetContent(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
) (*filesDomain.Content, error) {
	start := time.Now()
	content, err := f.next.GetContent(ctx, fileID, requesterID)
	f.record(ctx, "file_get_content", start, err)
	if err == nil {
		f.metrics.RecordBytes(ctx, "files", "file_get_content", len(content.Data))
	}
	return content, err
}

// GetMetadata records metrics for metadata reads.
func (f *fileUseCaseWithMetrics) GetMetadata(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
) (*filesDomain.Metadata, error) {
	start := time.Now()
	metadata, err := f.next.GetMetadata(ctx, fileID, requesterID)
	f.record(ctx, "file_get_metadata", start, err)
	return metadata, err
}

// Share records metrics for share calls.
func (f *fileUseCaseWithMetrics) Share(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
	entries []filesDomain.ShareRequest,
) ([]filesDomain.ShareOutcome, error) {
	start := time.Now()
	outcomes, err := f.next.Share(ctx, fileID, ownerID, entries)
	f.record(ctx, "file_share", start, err)
	return outcomes, err
}

// ListShares records metrics for grant listings.
func (f *fileUseCaseWithMetrics) ListShares(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
) ([]*filesDomain.ShareGrant, error) {
	start := time.Now()
	grants, err := f.next.ListShares(ctx, fileID, ownerID)
	f.record(ctx, "file_list_shares", start, err)
	return grants, err
}

// RevokeShare records metrics for grant revocations.
func (f *fileUseCaseWithMetrics) RevokeShare(ctx context.Context, fileID, ownerID uuid.UUID, username string) error {
	start := time.Now()
	err := f.next.RevokeShare(ctx, fileID, ownerID, username)
	f.record(ctx, "file_revoke_share", start, err)
	return err
}

// Delete records metrics for file deletions.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, fileID, ownerID uuid.UUID) error {
	start := time.Now()
	err := f.next.Delete(ctx, fileID, ownerID)
	f.record(ctx, "file_delete", start, err)
	return err
}

// publicLinkUseCaseWithMetrics decorates PublicLinkUseCase with metrics instrumentation.
type publicLinkUseCaseWithMetrics struct {
	next    PublicLinkUseCase
	metrics metrics.BusinessMetrics
}

// NewPublicLinkUseCaseWithMetrics wraps a PublicLinkUseCase with metrics recording.
func NewPublicLinkUseCaseWithMetrics(useCase PublicLinkUseCase, m metrics.BusinessMetrics) PublicLinkUseCase {
	return &publicLinkUseCaseWithMetrics{next: useCase, metrics: m}
}

func (p *publicLinkUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	p.metrics.RecordOperation(ctx, "public_links", operation, status)
	p.metrics.RecordDuration(ctx, "public_links", operation, time.Since(start), status)
}

// Issue records metrics for link issuance.
func (p *publicLinkUseCaseWithMetrics) Issue(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
	hoursValid int,
) (*filesDomain.PublicLink, error) {
	start := time.Now()
	link, err := p.next.Issue(ctx, fileID, requesterID, hoursValid)
	p.record(ctx, "public_link_issue", start, err)
	return link, err
}

// GetMetadata records metrics for public metadata reads.
func (p *publicLinkUseCaseWithMetrics) GetMetadata(ctx context.Context, token string) (*filesDomain.Metadata, error) {
	start := time.Now()
	metadata, err := p.next.GetMetadata(ctx, token)
	p.record(ctx, "public_link_get_metadata", start, err)
	return metadata, err
}

// GetContent records metrics for public downloads.
func (p *publicLinkUseCaseWithMetrics) GetContent(ctx context.Context, token string) (*filesDomain.Content, error) {
	start := time.Now()
	content, err := p.next.GetContent(ctx, token)
	p.record(ctx, "public_link_get_content", start, err)
	if err == nil {
		p.metrics.RecordBytes(ctx, "public_links", "public_link_get_content", len(content.Data))
	}
	return content, err
}

// Revoke records metrics for token revocations.
func (p *publicLinkUseCaseWithMetrics) Revoke(ctx context.Context, token string) error {
	start := time.Now()
	err := p.next.Revoke(ctx, token)
	p.record(ctx, "public_link_revoke", start, err)
	return err
}

// RevokeForFile records metrics for owner revocations.
func (p *publicLinkUseCaseWithMetrics) RevokeForFile(ctx context.Context, fileID, requesterID uuid.UUID) error {
	start := time.Now()
	err := p.next.RevokeForFile(ctx, fileID, requesterID)
	p.record(ctx, "public_link_revoke_for_file", start, err)
	return err
}
