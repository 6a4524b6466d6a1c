package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/advocates/internal/domain"
)

const (
	// DefaultPage is used when the page parameter is missing or not an integer.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is missing, not an integer, or below 1.
	DefaultLimit = 9
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// ParseSearchRequest extracts search, page and limit from the query string.
// Malformed numbers fall back to the defaults without an error. An integer
// page of zero or below is kept as given so the caller returns an empty page.
func ParseSearchRequest(c *gin.Context) domain.SearchRequest {
	return NewSearchRequest(c.Query("search"), c.Query("page"), c.Query("limit"))
}

// NewSearchRequest builds a SearchRequest from raw parameter values.
func NewSearchRequest(search, page, limit string) domain.SearchRequest {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = DefaultPage
	}

	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}

	return domain.SearchRequest{Search: search, Page: p, Limit: l}
}

// NewPageMeta computes pagination metadata. TotalPages is zero when there are
// no matches and CurrentPage echoes the requested page.
func NewPageMeta(total int64, page, limit int) domain.PageMeta {
	if limit < 1 {
		limit = DefaultLimit
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return domain.PageMeta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
		HasMore:     page < totalPages,
	}
}

// InRange reports whether page addresses an existing page of results.
func InRange(meta domain.PageMeta) bool {
	return meta.CurrentPage >= 1 && meta.CurrentPage <= meta.TotalPages
}
