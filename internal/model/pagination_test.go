package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		want         Page
		offset       int
	}{
		{"defaults", 0, 0, Page{Number: 1, Size: DefaultPageSize}, 0},
		{"second page", 2, 20, Page{Number: 2, Size: 20}, 20},
		{"size capped", 3, 500, Page{Number: 3, Size: MaxPageSize}, 200},
		{"negative values", -4, -1, Page{Number: 1, Size: DefaultPageSize}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.size)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 0, Pages: 0}, NewPagination(NewPage(1, 10), 0))
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 21, Pages: 3}, NewPagination(NewPage(2, 10), 21))
	assert.Equal(t, int64(1), NewPagination(NewPage(1, 10), 10).Pages)
}
