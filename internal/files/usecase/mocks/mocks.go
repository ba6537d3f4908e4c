// Package mocks provides mock implementations of the file use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
)

// MockFileUseCase is a mock implementation of FileUseCase.
type MockFileUseCase struct {
	mock.Mock
}

// Upload mocks the Upload method.
func (m *MockFileUseCase) Upload(ctx context.Context, input filesUseCase.UploadInput) (*filesDomain.File, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.File), args.Error(1)
}

// List mocks the List method.
func (m *MockFileUseCase) List(
	ctx context.Context,
	requesterID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	args := m.Called(ctx, requesterID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*filesDomain.FileSummary), args.Error(1)
}

// GetContent mocks the GetContent method.
func (m *MockFileUseCase) GetContent(ctx context.Context, fileID, requesterID uuid.UUID) (*filesDomain.Content, error) {
	args := m.Called(ctx, fileID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.Content), args.Error(1)
}

// GetMetadata mocks the GetMetadata method.
func (m *MockFileUseCase) GetMetadata(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
) (*filesDomain.Metadata, error) {
	args := m.Called(ctx, fileID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.Metadata), args.Error(1)
}

// Share mocks the Share method.
func (m *MockFileUseCase) Share(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
	entries []filesDomain.ShareRequest,
) ([]filesDomain.ShareOutcome, error) {
	args := m.Called(ctx, fileID, ownerID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filesDomain.ShareOutcome), args.Error(1)
}

// ListShares mocks the ListShares method.
func (m *MockFileUseCase) ListShares(
	ctx context.Context,
	fileID, ownerID uuid.UUID,
) ([]*filesDomain.ShareGrant, error) {
	args := m.Called(ctx, fileID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*filesDomain.ShareGrant), args.Error(1)
}

// RevokeShare mocks the RevokeShare method.
func (m *MockFileUseCase) RevokeShare(ctx context.Context, fileID, ownerID uuid.UUID, username string) error {
	args := m.Called(ctx, fileID, ownerID, username)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockFileUseCase) Delete(ctx context.Context, fileID, ownerID uuid.UUID) error {
	args := m.Called(ctx, fileID, ownerID)
	return args.Error(0)
}

// MockPublicLinkUseCase is a mock implementation of PublicLinkUseCase.
type MockPublicLinkUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockPublicLinkUseCase) Issue(
	ctx context.Context,
	fileID, requesterID uuid.UUID,
	hoursValid int,
) (*filesDomain.PublicLink, error) {
	args := m.Called(ctx, fileID, requesterID, hoursValid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.PublicLink), args.Error(1)
}

// GetMetadata mocks the GetMetadata method.
func (m *MockPublicLinkUseCase) GetMetadata(ctx context.Context, token string) (*filesDomain.Metadata, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.Metadata), args.Error(1)
}

// GetContent mocks the GetContent method.
func (m *MockPublicLinkUseCase) GetContent(ctx context.Context, token string) (*filesDomain.Content, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.Content), args.Error(1)
}

// Revoke mocks the Revoke method.
func (m *MockPublicLinkUseCase) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// RevokeForFile mocks the RevokeForFile method.
func (m *MockPublicLinkUseCase) RevokeForFile(ctx context.Context, fileID, requesterID uuid.UUID) error {
	args := m.Called(ctx, fileID, requesterID)
	return args.Error(0)
}

var (
	_ filesUseCase.FileUseCase       = (*MockFileUseCase)(nil)
	_ filesUseCase.PublicLinkUseCase = (*MockPublicLinkUseCase)(nil)
)
