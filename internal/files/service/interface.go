// Package service provides the random token source for public links.
package service

// TokenGenerator produces unguessable public link tokens.
type TokenGenerator interface {
	// GenerateToken returns a new random token safe for use in a URL path segment.
	GenerateToken() (string, error)
}
