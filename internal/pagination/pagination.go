// Package pagination computes fixed-size page windows over an ordered result set.
//
// A Page is a plain value. Two listings rendered on the same screen each build
// their own Page from their own query parameter, so they never share state.
//
//	page := pagination.Paginate(0, 6, pagination.ParsePage(c.Query("home_pagination_page")))
//	exercises, total, err := repo.List(ctx, page.Limit, page.Offset)
//	page = page.WithTotal(total)
package pagination

import (
	"math"
	"strconv"
)

// Page describes one 1-indexed window into a result set.
type Page struct {
	Number int   // requested page, not clamped to Pages
	Size   int   // records per page
	Offset int   // records to skip
	Limit  int   // records to return
	Total  int64 // records in the whole result set
	Pages  []int // valid page numbers, always at least [1]
}

// Paginate builds the window for the requested page.
// Requesting a page past the last one is not an error: the offset simply
// points beyond the data and the listing comes back empty.
func Paginate(total int64, pageSize, requested int) Page {
	if pageSize <= 0 {
		pageSize = 1
	}
	if requested < 1 {
		requested = 1
	}
	// Keep the offset from overflowing. It still lies past any real total.
	if maxPage := math.MaxInt / pageSize; requested > maxPage {
		requested = maxPage
	}
	if total < 0 {
		total = 0
	}

	return Page{
		Number: requested,
		Size:   pageSize,
		Offset: (requested - 1) * pageSize,
		Limit:  pageSize,
		Total:  total,
		Pages:  pageNumbers(PageCount(total, pageSize)),
	}
}

// PageCount returns ceil(total/pageSize), with a minimum of one page.
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// ParsePage reads a page number from a query parameter value.
// Missing, malformed or non-positive values fall back to the first page.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// WithTotal returns the same window with Total and Pages rebuilt for total.
// The offset never depends on the total, so a listing can be fetched first
// and counted in the same query.
func (p Page) WithTotal(total int64) Page {
	return Paginate(total, p.Size, p.Number)
}

// InRange reports whether the requested page is one of the valid pages.
func (p Page) InRange() bool {
	return p.Number <= len(p.Pages)
}

// HasPrev reports whether a previous page link should be rendered.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page link should be rendered.
func (p Page) HasNext() bool {
	return p.Number < len(p.Pages)
}

func pageNumbers(count int) []int {
	pages := make([]int, count)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
