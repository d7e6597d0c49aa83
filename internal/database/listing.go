package database

// Pagination defaults shared by list queries
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a page of a list result
type PageRequest struct {
	Page     int
	PageSize int
}

// limitOffset normalizes the request into SQL LIMIT/OFFSET values
func (p PageRequest) limitOffset() (limit, offset int) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return size, (page - 1) * size
}

// PageResult carries a page of rows plus the total row count
type PageResult[T any] struct {
	Items []T
	Total int
}
