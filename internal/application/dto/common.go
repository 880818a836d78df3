package dto

import (
	"net/url"
	"strconv"
)

// PageSize is the number of rows requested per list page.
const PageSize = 10

// ListQuery is the query sent to GET /{resource}. Zero fields are omitted.
type ListQuery struct {
	Page      int
	Rows      int
	Search    string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// Values encodes the query as page, rows, search, start_date, end_date.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Rows > 0 {
		v.Set("rows", strconv.Itoa(q.Rows))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	return v
}

// Page holds one page of a server-paginated list.
type Page[T any] struct {
	Results []T
	Total   int
	Totals  *SalesTotals // sales list only
}

// Pages returns the total number of pages for the fixed page size.
func (p Page[T]) Pages() int {
	return PageCount(p.Total)
}

// PageCount returns ceil(total / PageSize).
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// ErrorResponse is the console JSON error body.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}
