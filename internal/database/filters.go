package database

import (
	"math"
	"strings"

	"github.com/mediaorganizer/media-api/internal/validator"
)

// Filters carries the pagination and sorting parameters applied to a list
// query. Sort values are only ever interpolated into SQL after passing the
// safelist check.
type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

// Metadata describes the page of results a list query produced.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// NewMetadata calculates the pagination metadata for a result set. An empty
// result set yields an empty Metadata struct.
func NewMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}

	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}

// ValidateFilters records an error for every filter value that is out of
// range or not on the sort safelist.
func (f Filters) ValidateFilters(v *validator.Validator) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
	v.Check(validator.PermittedValue(f.Sort, f.SortSafelist...), "sort", "invalid sort value")
}

// SortColumn returns the column to sort on, with the direction prefix
// stripped. It panics if the sort value is not on the safelist: by the time
// a query is built the value must already have been validated, so an unsafe
// value here is a programming error, not client input.
func (f Filters) SortColumn() string {
	for _, safeValue := range f.SortSafelist {
		if f.Sort == safeValue {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}

	panic("unsafe sort parameter: " + f.Sort)
}

// SortDirection maps a leading "-" on the sort value to a descending order.
func (f Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

// Limit is the maximum number of rows a page may hold.
func (f Filters) Limit() int {
	return f.PageSize
}

// Offset is the number of rows to skip before the requested page starts.
func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}
