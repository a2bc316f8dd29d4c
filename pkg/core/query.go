package core

import (
	"sort"
	"strings"
)

// SortField selects the review attribute a query orders by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByTitle     SortField = "title"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Query describes one paginated, sorted, search-filtered snapshot request.
type Query struct {
	Page     int
	PageSize int
	Sort     SortField
	Order    SortDirection
	Search   string
}

// DefaultQuery mirrors the API defaults: first page of ten, newest first.
func DefaultQuery() Query {
	return Query{
		Page:     1,
		PageSize: 10,
		Sort:     SortByCreatedAt,
		Order:    Descending,
	}
}

// Validate checks pagination and sort parameters.
func (q Query) Validate() error {
	if q.Page < 1 {
		return invalidArgumentf("page must be >= 1, got %d", q.Page)
	}
	if q.PageSize < 1 {
		return invalidArgumentf("page size must be >= 1, got %d", q.PageSize)
	}
	switch q.Sort {
	case SortByCreatedAt, SortByTitle:
	default:
		return invalidArgumentf("unknown sort field %q", q.Sort)
	}
	switch q.Order {
	case Ascending, Descending:
	default:
		return invalidArgumentf("unknown sort order %q", q.Order)
	}
	return nil
}

// Page is one snapshot of the collection as served to a client.
type Page struct {
	Reviews     []Review `json:"reviews"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
}

// Matches reports whether r is visible under the query's filter: live, and
// title containing the search term as a case-insensitive substring.
func (q Query) Matches(r Review) bool {
	if !r.Live() {
		return false
	}
	if q.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), strings.ToLower(q.Search))
}

// Select applies q's filter, sort and page window to reviews, which must
// already be in the store's natural order (ties keep that order).
// It returns the page slice and the total match count. Store
// implementations share this so query semantics live in one place.
func Select(reviews []Review, q Query) ([]Review, int) {
	matched := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if q.Matches(r) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch q.Sort {
		case SortByTitle:
			if a.Title == b.Title {
				return false
			}
			less = a.Title < b.Title
		default: // SortByCreatedAt
			if a.CreatedAt.Equal(b.CreatedAt) {
				return false
			}
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if q.Order == Descending {
			return !less
		}
		return less
	})

	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return []Review{}, len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]Review, end-start)
	copy(page, matched[start:end])
	return page, len(matched)
}

// TotalPages computes the page count for a match total.
func TotalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
