package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	safelist := []string{"id", "title", "release_date"}
	tests := []struct {
		sort      string
		column    string
		direction string
		allowed   bool
	}{
		{"", "id", AscSort, true},
		{"title", "title", AscSort, true},
		{"-release_date", "release_date", DescSort, true},
		{"TITLE", "title", AscSort, true},
		{"budget", "id", AscSort, false},
		{"-budget", "id", DescSort, false},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			f := Filters{Sort: tt.sort, SortSafelist: safelist}
			assert.Equal(t, tt.column, f.SortColumn())
			assert.Equal(t, tt.direction, f.SortDirection())
			assert.Equal(t, tt.allowed, f.IsSortAllowed())
		})
	}
}

func TestPaging(t *testing.T) {
	tests := []struct {
		name   string
		f      Filters
		limit  int
		offset int
	}{
		{"unlimited", Filters{}, 0, 0},
		{"unlimited ignores page", Filters{Page: 3}, 0, 0},
		{"first page", Filters{Page: 1, PageSize: 10}, 10, 0},
		{"third page", Filters{Page: 3, PageSize: 10}, 10, 20},
		{"page defaults to first", Filters{PageSize: 5}, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.limit, tt.f.Limit())
			assert.Equal(t, tt.offset, tt.f.Offset())
		})
	}
}
