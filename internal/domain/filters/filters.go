package filters

import (
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"
)

// Filters describes ordering and paging of a list query.
// A zero PageSize means "no limit".
type Filters struct {
	Page         int      `schema:"page" validate:"omitempty,gte=1,lte=10000000"`
	PageSize     int      `schema:"page_size" validate:"omitempty,gte=1,lte=100"`
	Sort         string   `schema:"sort"`
	SortSafelist []string `schema:"-"`
}

// SortColumn returns the safelisted column for Sort, or "id" when Sort is empty
// or not in the safelist.
func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return safeValue
		}
	}
	return "id"
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

// IsSortAllowed reports whether Sort is empty or names a safelisted column.
func (f *Filters) IsSortAllowed() bool {
	if f.Sort == "" {
		return true
	}
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return true
		}
	}
	return false
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	if f.PageSize == 0 || f.Page < 2 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
