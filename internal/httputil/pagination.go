package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/filevault/internal/errors"
)

// Listing window bounds for ?offset=&limit= query parameters.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

var (
	// ErrInvalidOffset indicates an offset that is not a non-negative integer.
	ErrInvalidOffset = apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")

	// ErrInvalidLimit indicates a limit outside 1..MaxPageLimit.
	ErrInvalidLimit = apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be between 1 and 100")
)

// Page is a window over a listing.
type Page struct {
	Offset int
	Limit  int
}

// ParsePagination reads offset (default 0) and limit (default DefaultPageLimit) from the query.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, ErrInvalidOffset
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return Page{}, ErrInvalidLimit
	}

	return Page{Offset: offset, Limit: limit}, nil
}
