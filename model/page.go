package model

import "errors"

const (
	// DefaultPageSize is used by handlers when the client sends no page size.
	DefaultPageSize = 10
	// MaxPageSize bounds a single page.
	MaxPageSize = 100
)

var (
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidSortKey  = errors.New("invalid sort key")
)

// PageRequest describes one page of a sorted, filtered query.
type PageRequest struct {
	PageIndex  int    `json:"pageIndex"` // 1-based
	PageSize   int    `json:"pageSize"`
	SortKey    string `json:"sortKey,omitempty"`
	Descending bool   `json:"descending"`
}

// Normalize clamps PageIndex to at least 1 and rejects page sizes outside [1, MaxPageSize].
func (p PageRequest) Normalize() (PageRequest, error) {
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return p, ErrInvalidPageSize
	}
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	return p, nil
}

// Offset is the number of matching records before this page. Call it on a normalized request.
func (p PageRequest) Offset() int {
	return (p.PageIndex - 1) * p.PageSize
}

// PageResult is one page of records plus the total match count across all pages.
type PageResult[T any] struct {
	Items     []T   `json:"data"`
	Total     int64 `json:"total"`
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
}

// NewPageResult builds a result for a normalized request.
func NewPageResult[T any](req PageRequest, items []T, total int64) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Items:     items,
		Total:     total,
		PageIndex: req.PageIndex,
		PageSize:  req.PageSize,
		PageCount: PageCount(total, req.PageSize),
	}
}

// PageCount returns ceil(total/size).
func PageCount(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
