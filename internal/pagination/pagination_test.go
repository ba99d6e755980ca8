package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestParseParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/get_patients", nil)

	p := ParseParams(r)
	if p.Page != DefaultPage || p.Limit != DefaultLimit {
		t.Errorf("Expected defaults %d/%d, got %d/%d", DefaultPage, DefaultLimit, p.Page, p.Limit)
	}
}

func TestParseParams_ClampsAndIgnoresGarbage(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"page=3&limit=5", 3, 5},
		{"page=0&limit=-2", DefaultPage, DefaultLimit},
		{"page=abc&limit=xyz", DefaultPage, DefaultLimit},
		{"limit=9999", DefaultPage, MaxLimit},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/get_patients?"+tt.query, nil)
		p := ParseParams(r)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
			t.Errorf("%s: expected %d/%d, got %d/%d", tt.query, tt.wantPage, tt.wantLimit, p.Page, p.Limit)
		}
	}
}

func TestCalculateMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}

	meta := p.CalculateMeta(25)
	if meta.TotalPages != 3 {
		t.Errorf("Expected 3 pages for 25 records, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrevious {
		t.Errorf("Expected middle page to have both neighbours: %+v", meta)
	}

	pe := Params{Page: 1, Limit: 10}
	empty := pe.CalculateMeta(0)
	if empty.TotalPages != 1 || empty.HasNext {
		t.Errorf("Expected a single empty page, got %+v", empty)
	}
}

func TestCalculateOffset(t *testing.T) {
	p := Params{Page: 4, Limit: 25}
	if got := p.CalculateOffset(); got != 75 {
		t.Errorf("Expected offset 75, got %d", got)
	}
}
