// Package identity carries the authenticated requester through request contexts.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// requesterKey is a context key type for storing the authenticated user id.
type requesterKey struct{}

// WithRequester stores the authenticated user id in the context.
// This is called by the authentication middleware after successful token validation.
func WithRequester(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, requesterKey{}, userID)
}

// GetRequester retrieves the authenticated user id from the context.
// Returns (uuid.Nil, false) for anonymous requests.
func GetRequester(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(requesterKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
