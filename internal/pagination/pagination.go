// Package pagination implements page/limit windowing for the list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	// MaxLimit caps per-page size so a single request cannot dump a table.
	MaxLimit = 100
)

// Params is a 1-based page window.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes where a response page sits in the full result set.
type Meta struct {
	CurrentPage  int  `json:"current_page"`
	PerPage      int  `json:"per_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// ParseParams reads page and limit from the query string. Missing, malformed
// or out-of-range values fall back to the defaults.
func ParseParams(r *http.Request) Params {
	p := Params{
		Page:  atoiOr(r.URL.Query().Get("page"), DefaultPage),
		Limit: atoiOr(r.URL.Query().Get("limit"), DefaultLimit),
	}
	p.Validate()
	return p
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Validate clamps the window back into range.
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// CalculateOffset returns the SQL OFFSET for the window.
func (p *Params) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateMeta derives response metadata from the total row count.
// An empty result set still reports one page.
func (p *Params) CalculateMeta(totalRecords int) Meta {
	totalPages := (totalRecords + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		CurrentPage:  p.Page,
		PerPage:      p.Limit,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      p.Page < totalPages,
		HasPrevious:  p.Page > 1,
	}
}
