package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		page   int
		offset int
	}{
		{"defaults", "", 50, 1, 0},
		{"explicit", "limit=30&page=2", 30, 2, 30},
		{"non numeric falls back", "limit=abc&page=xyz", 50, 1, 0},
		{"zero limit falls back", "limit=0&page=3", 50, 3, 100},
		{"negative page falls back", "limit=10&page=-4", 10, 1, 0},
		{"limit capped", "limit=1000", 100, 1, 0},
		{"huge page capped", "limit=50&page=9223372036854775807", 50, 42949672, 2147483550},
		{"page beyond int64 falls back", "page=99999999999999999999", 50, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParsePagination(q)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2, Offset: 10}
	p.ComputeMeta(25)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = Pagination{Limit: 10, Page: 3, Offset: 20}
	p.ComputeMeta(25)
	assert.False(t, p.HasNext)
}
