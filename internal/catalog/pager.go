package catalog

import "movieflix/internal/media"

// DefaultPageSize is the number of entries revealed per page.
const DefaultPageSize = 15

// Pager exposes a growing prefix of a filtered list.
type Pager struct {
	items    []media.Entry
	pageSize int
	page     int
}

// NewPager starts at page 1. A non-positive size uses DefaultPageSize.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize, page: 1}
}

// Reset replaces the items and returns to page 1.
func (p *Pager) Reset(items []media.Entry) {
	p.items = items
	p.page = 1
}

// Visible returns the first page*pageSize items.
func (p *Pager) Visible() []media.Entry {
	end := min(p.page*p.pageSize, len(p.items))
	return p.items[:end]
}

// HasMore reports whether items remain beyond the visible window.
func (p *Pager) HasMore() bool {
	return p.page*p.pageSize < len(p.items)
}

// LoadMore advances one page when more items remain and reports whether it
// did.
func (p *Pager) LoadMore() bool {
	if !p.HasMore() {
		return false
	}
	p.page++
	return true
}

// Page returns the current page number, starting at 1.
func (p *Pager) Page() int { return p.page }

// PageSize returns the number of items per page.
func (p *Pager) PageSize() int { return p.pageSize }

// Total returns the number of items behind the pager.
func (p *Pager) Total() int { return len(p.items) }

// Window returns the items of a single 1-based page, for non-incremental
// listings such as the CLI's --page flag.
func Window(items []media.Entry, page, pageSize int) []media.Entry {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []media.Entry{}
	}
	return items[start:min(start+pageSize, len(items))]
}

// PageCount returns how many pages of pageSize cover total items.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
