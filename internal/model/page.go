package model

type Page[T any] struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Results     []T `json:"results"`
}

// NewPage builds a page envelope. Results is never nil so it encodes as [].
func NewPage[T any](total, page, perPage int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Total:       total,
		TotalPages:  TotalPages(total, perPage),
		CurrentPage: page,
		Results:     results,
	}
}

// TotalPages is ceil(total / perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
