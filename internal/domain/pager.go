package domain

import "strconv"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 10000
)

// Pager selects one page of a result set. Pages are 1-based.
type Pager struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func NewPager(page, perPage int) Pager {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pager{Page: page, PerPage: perPage}
}

func (p Pager) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pager) Limit() int {
	return p.PerPage
}

// Window is the number of leading rows needed to serve this page from a merged result.
func (p Pager) Window() int {
	return p.Page * p.PerPage
}

// Paginate returns the page of items selected by p.
func Paginate[T any](items []T, p Pager) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) || p.PerPage <= 0 {
		return []T{}
	}
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
