package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

// Page sizes used by the storefront and the admin screens.
const (
	StorefrontPageSize = 12
	AdminPageSize      = 10
	RelatedCourseLimit = 4
)

// Sort orders accepted by the catalog endpoint.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortPopular   = "popular"
)

// SortKeys lists every accepted sort order.
var SortKeys = []string{SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortRating, SortPopular}

// Query selects one page of a listing.
type Query struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID string
	Sort       string
}

// Normalize fills defaults: page 1 and the given page size.
func (q Query) Normalize(defaultSize int) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultSize
	}
	return q
}

// Validate rejects unknown sort keys.
func (q Query) Validate() error {
	if q.Sort == "" {
		return nil
	}
	for _, k := range SortKeys {
		if q.Sort == k {
			return nil
		}
	}
	return fmt.Errorf("unknown sort %q (valid: %v)", q.Sort, SortKeys)
}

// Values encodes the query as URL parameters, leaving out empty filters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("categoryId", q.CategoryID)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
	Page       int `json:"-"`
	PageSize   int `json:"-"`
}

// TotalPages is ceil(TotalItems / PageSize).
func (p Page[T]) TotalPages() int {
	return TotalPages(p.TotalItems, p.PageSize)
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}

// TotalPages is ceil(total / size); 0 when size is not positive.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
