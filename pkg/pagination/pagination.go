package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts page/limit from the query string. Missing, malformed or
// out-of-range values fall back to the defaults.
func Parse(c *gin.Context) Params {
	return ParseWithDefault(c, DefaultLimit)
}

// ParseWithDefault is Parse with an endpoint-specific default page size.
func ParseWithDefault(c *gin.Context, defaultLimit int) Params {
	if defaultLimit < MinLimit || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	page := atoiOr(c.Query("page"), DefaultPage)
	limit := atoiOr(c.Query("limit"), defaultLimit)
	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages returns how many pages of limit rows hold total rows.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
