package view

import (
	"net/url"
	"strconv"

	"github.com/simp-lee/advocates/internal/domain"
)

// PageLink is one numbered link of a pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the navigation model under a result list. PrevURL and NextURL are
// empty when the direction is unavailable. FirstURL is set whenever there is
// at least one page.
type Pager struct {
	Meta     domain.PageMeta
	FirstURL string
	PrevURL  string
	NextURL  string
	Links    []PageLink
}

// OutOfRange reports whether records exist but the current page holds none
// of them.
func (p Pager) OutOfRange() bool {
	return p.Meta.Total > 0 && (p.Meta.CurrentPage < 1 || p.Meta.CurrentPage > p.Meta.TotalPages)
}

// NewPager builds links for basePath that carry search and the page size.
// window is the page-number range to list.
func NewPager(basePath, search string, meta domain.PageMeta, window []int) Pager {
	p := Pager{Meta: meta, Links: make([]PageLink, 0, len(window))}
	if meta.TotalPages == 0 {
		return p
	}
	p.FirstURL = PageURL(basePath, search, 1, meta.Limit)

	if meta.CurrentPage > 1 {
		prev := meta.CurrentPage - 1
		if prev > meta.TotalPages {
			prev = meta.TotalPages
		}
		p.PrevURL = PageURL(basePath, search, prev, meta.Limit)
	}
	if meta.HasMore {
		next := meta.CurrentPage + 1
		if next < 1 {
			next = 1
		}
		p.NextURL = PageURL(basePath, search, next, meta.Limit)
	}
	for _, n := range window {
		p.Links = append(p.Links, PageLink{
			Number:  n,
			URL:     PageURL(basePath, search, n, meta.Limit),
			Current: n == meta.CurrentPage,
		})
	}
	return p
}

// PageURL returns basePath with search, page and limit in its query string.
// An empty search is omitted.
func PageURL(basePath, search string, page, limit int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return basePath + "?" + q.Encode()
}
