package catalog

import (
	"strings"

	"filmgrid/internal/domain"
)

// DefaultPageSize applies when a query leaves PageSize unset.
const DefaultPageSize = 10

// Valuer exposes record fields by name.
type Valuer interface {
	Value(domain.Field) string
}

// Query describes one table view. Filters with an empty value are inactive.
// Canon, when set for a field, canonicalizes both the record value and the
// wanted value before they are compared.
type Query struct {
	Text         string
	SearchFields []domain.Field
	Filters      map[domain.Field]string
	Canon        map[domain.Field]func(string) string
	PageSize     int
	Page         int
}

// Page is one slice of a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
}

// Filter keeps the items matching the search text and every active filter,
// in input order, in a new slice.
func Filter[T Valuer](items []T, q Query) []T {
	needle := strings.ToLower(q.Text)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesText(it, needle, q.SearchFields) && matchesFilters(it, q) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate returns page n (1-based) of items. Pages outside 1..TotalPages
// come back empty.
func Paginate[T any](items []T, size, n int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	p := Page[T]{Items: []T{}, TotalPages: pages, TotalCount: total, Number: n, Size: size}
	if n < 1 || n > pages {
		return p
	}
	start := (n - 1) * size
	if start >= total {
		return p
	}
	end := n * size
	if end > total {
		end = total
	}
	p.Items = append(p.Items, items[start:end]...)
	return p
}

// FilterAndPaginate runs Filter then Paginate.
func FilterAndPaginate[T Valuer](items []T, q Query) Page[T] {
	return Paginate(Filter(items, q), q.PageSize, q.Page)
}

func matchesText(it Valuer, needle string, fields []domain.Field) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(it.Value(f)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(it Valuer, q Query) bool {
	for f, want := range q.Filters {
		if want == "" {
			continue
		}
		got := it.Value(f)
		if canon := q.Canon[f]; canon != nil {
			got, want = canon(got), canon(want)
		}
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}
