package storage

// PageRequest selects a page of a listing. Zero values fall back to the
// first page with the default size.
type PageRequest struct {
	Page int
	Size int
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func (r PageRequest) normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Size < 1 {
		r.Size = defaultPageSize
	}
	if r.Size > maxPageSize {
		r.Size = maxPageSize
	}
	return r
}

func (r PageRequest) skip() int64 {
	return int64(r.Page-1) * int64(r.Size)
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

func newPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	pages := int(total) / req.Size
	if int(total)%req.Size != 0 {
		pages++
	}
	return &Page[T]{Items: items, Total: total, Page: req.Page, Size: req.Size, Pages: pages}
}
