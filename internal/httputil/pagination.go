package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/actionserver/internal/errors"
)

// Pagination defaults and bounds shared by every list endpoint.
const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ParsePagination reads the offset and limit query parameters. On error both
// values come back zero so callers cannot accidentally paginate with them.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, apperrors.New("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return 0, 0, apperrors.New("invalid limit parameter: must be between 1 and 100")
	}

	return offset, limit, nil
}
