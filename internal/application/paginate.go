// Package application contains the stateless core services: reference
// resolution, pagination, and the command router.
package application

import (
	"strings"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// DefaultPageSize is the page length shared by variable and task listings
// unless overridden through configuration.
const DefaultPageSize = 10

// named is satisfied by every listable entity.
type named interface {
	DisplayName() string
}

// Paginate filters items by the request's case-insensitive substring search
// over entity names, preserving the remote collection's relative order,
// then slices the filtered sequence into fixed-size 1-based pages. A page
// index past the end yields an empty page with HasMore false; it is never
// an error. A non-positive index is treated as the first page.
func Paginate[T named](items []T, req model.PageRequest, pageSize int) model.Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	index := req.Index
	if index < 1 {
		index = 1
	}

	filtered := items
	if req.Search != "" {
		term := strings.ToLower(req.Search)
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.DisplayName()), term) {
				filtered = append(filtered, item)
			}
		}
	}

	start := (index - 1) * pageSize
	end := start + pageSize
	page := model.Page[T]{
		Items:   []T{},
		Index:   index,
		Total:   len(filtered),
		HasMore: end < len(filtered),
	}
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		page.Items = filtered[start:end]
	}
	return page
}
