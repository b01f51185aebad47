package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes raw page parameters.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes a page of results in responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(p Page, total int64) Pagination {
	size := int64(p.Size)
	if size < 1 {
		size = DefaultPageSize
	}
	return Pagination{
		Page:  p.Number,
		Limit: p.Size,
		Total: total,
		Pages: (total + size - 1) / size,
	}
}
