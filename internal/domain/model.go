package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
// Records are immutable once written, so there is no UpdatedAt column.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchRequest holds the free-text search term and the requested page window.
// Page is 1-indexed. Values outside the valid range are not rejected; they yield
// an empty page.
type SearchRequest struct {
	Search string
	Page   int
	Limit  int
}

// PageMeta is the pagination metadata returned alongside a page of results.
type PageMeta struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	HasMore     bool  `json:"hasMore"`
}
