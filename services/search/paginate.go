package search

import (
	"strconv"
	"strings"
)

// Page is a resolved pagination window plus the metadata the API returns
// alongside every listing.
type Page struct {
	Number      int
	Size        int
	Offset      int
	TotalPages  int
	TotalItems  int64
	HasNext     bool
	HasPrevious bool
}

// ParsePositiveInt parses a query parameter leniently: anything that is
// not a positive integer falls back to the default, values above maxValue
// clamp to it. maxValue <= 0 means unbounded.
func ParsePositiveInt(value string, defaultValue, maxValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	if parsed < 1 {
		return defaultValue
	}
	if maxValue > 0 && parsed > maxValue {
		return maxValue
	}
	return parsed
}

// Resolve computes the window for a requested page over totalItems rows.
// A page past the end clamps to the last valid page instead of erroring,
// and an empty result set still reports one (empty) page.
func Resolve(page, pageSize int, totalItems int64) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Page{
		Number:      page,
		Size:        pageSize,
		Offset:      (page - 1) * pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// Meta renders the page as the listing metadata map, echoing back the
// trimmed query string.
func (p Page) Meta(query string) map[string]interface{} {
	return map[string]interface{}{
		"page":         p.Number,
		"page_size":    p.Size,
		"total_pages":  p.TotalPages,
		"total_items":  p.TotalItems,
		"has_next":     p.HasNext,
		"has_previous": p.HasPrevious,
		"query":        strings.TrimSpace(query),
	}
}
