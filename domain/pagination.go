package domain

import "github.com/google/uuid"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductFilter drives the public catalog listing.
type ProductFilter struct {
	Page      int
	Limit     int
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder SortOrder
}

// Normalize applies paging defaults and clamps the limit.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// VendorProductFilter lists a vendor's own catalog, inactive rows included.
type VendorProductFilter struct {
	ProductFilter
	VendorID uuid.UUID
	IsActive *bool
}
