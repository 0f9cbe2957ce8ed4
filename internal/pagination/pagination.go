// Package pagination implements the list-endpoint contract shared by products
// and users: page/filter/sort/projection inputs and the _links envelope.
package pagination

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// Params are the raw listing inputs taken from one request.
type Params struct {
	PageNumber    int
	PageSize      int
	FilterByField string
	FilterValue   string
	SortBy        string
	Select        []string
}

// selectBody is the optional request body carrying a field projection list.
type selectBody struct {
	Select []string `json:"select"`
}

// ParseParams reads paging, filter and sort inputs from the query string and
// the projection list from the request body. Filter field names are passed
// through as-is; storage decides what an unknown field matches.
func ParseParams(r *http.Request) Params {
	p := Params{
		PageNumber:    DefaultPageNumber,
		PageSize:      DefaultPageSize,
		FilterByField: r.URL.Query().Get("filterByField"),
		FilterValue:   r.URL.Query().Get("filterValue"),
		SortBy:        r.URL.Query().Get("sortBy"),
	}

	if raw := r.URL.Query().Get("pageNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.PageNumber = n
		}
	}

	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.PageSize = n
		}
	}

	if r.Body != nil {
		var body selectBody
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			p.Select = body.Select
		}
	}

	return p
}

// Query is the storage-facing shape of Params.
type Query struct {
	Filter map[string]interface{}
	SortBy string
	Skip   int
	Limit  int
	Select []string
}

func (p Params) Query() Query {
	q := Query{
		Filter: map[string]interface{}{},
		SortBy: p.SortBy,
		Skip:   (p.PageNumber - 1) * p.PageSize,
		Limit:  p.PageSize,
		Select: p.Select,
	}
	if p.FilterByField != "" && p.FilterValue != "" {
		q.Filter[p.FilterByField] = p.FilterValue
	}
	return q
}

type Links struct {
	Base string `json:"base"`
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Page is the response envelope for list endpoints.
type Page struct {
	PageSize   int         `json:"pageSize"`
	PageNumber int         `json:"pageNumber"`
	Links      Links       `json:"_links"`
	Results    interface{} `json:"results"`
}

// BuildPage assembles the envelope. prev is present for every page after the
// first; next is present exactly when the page came back full. That is a
// "maybe more" heuristic, not backed by a count query, so an exact final page
// still advertises a next link.
func BuildPage(r *http.Request, p Params, resultCount int, results interface{}) Page {
	base := baseURL(r)

	page := Page{
		PageSize:   p.PageSize,
		PageNumber: p.PageNumber,
		Links:      Links{Base: base},
		Results:    results,
	}

	if p.PageNumber > 1 {
		page.Links.Prev = fmt.Sprintf("%s?pageSize=%d&pageNumber=%d", base, p.PageSize, p.PageNumber-1)
	}

	if resultCount == p.PageSize {
		page.Links.Next = fmt.Sprintf("%s?pageSize=%d&pageNumber=%d", base, p.PageSize, p.PageNumber+1)
	}

	return page
}

// baseURL is the request URL with the query string stripped.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
}
