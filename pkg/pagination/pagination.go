package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/autou/pkg/query"
)

// PageRequest is a client request for one page of results.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     []query.SortField
}

// Normalize clamps Page to at least 1 and PageSize into [1, cfg.MaxPageSize].
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset returns the number of rows skipped before this page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// FromQuery reads page, page_size, and sort from URL query values and
// normalizes the result. Non-integer page values are rejected.
func FromQuery(values url.Values, cfg Config) (PageRequest, error) {
	var req PageRequest

	for name, dst := range map[string]*int{"page": &req.Page, "page_size": &req.PageSize} {
		v := values.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return PageRequest{}, fmt.Errorf("%s must be an integer: %q", name, v)
		}
		*dst = n
	}

	req.Sort = query.ParseSortFields(values.Get("sort"))
	req.Normalize(cfg)
	return req, nil
}

// PageResult holds one page of data with its position in the full result.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult creates a PageResult. TotalPages is at least 1 and Data is never nil.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
