package storage

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", PageRequest{}, 1, defaultPageSize},
		{"negative page", PageRequest{Page: -3, Size: 10}, 1, 10},
		{"oversized", PageRequest{Page: 2, Size: 500}, 2, maxPageSize},
		{"in range", PageRequest{Page: 3, Size: 20}, 3, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalize()
			if got.Page != tt.wantPage || got.Size != tt.wantSize {
				t.Errorf("normalize() = %+v, want page %d size %d", got, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestPageRequestSkip(t *testing.T) {
	req := PageRequest{Page: 3, Size: 20}.normalize()
	if req.skip() != 40 {
		t.Errorf("skip() = %d, want 40", req.skip())
	}
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 1, Size: 10}.normalize()

	page := newPage([]int{1, 2, 3}, 25, req)
	if page.Pages != 3 {
		t.Errorf("Pages = %d, want 3", page.Pages)
	}
	if page.Total != 25 {
		t.Errorf("Total = %d, want 25", page.Total)
	}

	empty := newPage[int](nil, 0, req)
	if empty.Items == nil {
		t.Error("nil items should serialize as an empty list, not null")
	}
	if empty.Pages != 0 {
		t.Errorf("Pages = %d, want 0", empty.Pages)
	}
}
