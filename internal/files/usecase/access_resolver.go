package usecase

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// AccessResolver computes the effective access level of a requester on a file.
type AccessResolver struct {
	grants GrantRepository
}

// NewAccessResolver creates an AccessResolver.
func NewAccessResolver(grants GrantRepository) *AccessResolver {
	return &AccessResolver{grants: grants}
}

// ResolveAccess applies owner, then grant, then none. Anonymous requesters always get AccessNone.
// The error is only set on repository failures.
func (r *AccessResolver) ResolveAccess(
	ctx context.Context,
	file *filesDomain.File,
	requesterID uuid.UUID,
) (filesDomain.AccessLevel, error) {
	if requesterID == uuid.Nil {
		return filesDomain.AccessNone, nil
	}
	if file.OwnerID == requesterID {
		return filesDomain.AccessOwner, nil
	}

	grant, err := r.grants.Get(ctx, file.ID, requesterID)
	if err != nil {
		if apperrors.Is(err, filesDomain.ErrGrantNotFound) {
			return filesDomain.AccessNone, nil
		}
		return filesDomain.AccessNone, err
	}
	if !grant.AccessLevel.IsGrantable() {
		return filesDomain.AccessNone, nil
	}
	return grant.AccessLevel, nil
}
