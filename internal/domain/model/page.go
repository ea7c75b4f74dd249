package model

// PageRequest selects a 1-based page of a listing, optionally narrowed by a
// case-insensitive substring search over entity names.
type PageRequest struct {
	Index  int
	Search string
}

// Page is one page of a filtered listing. Total counts the whole filtered
// sequence, not just this page. A request past the end yields an empty
// Items with HasMore false; it is not an error.
type Page[T any] struct {
	Items   []T
	Index   int
	Total   int
	HasMore bool
}
