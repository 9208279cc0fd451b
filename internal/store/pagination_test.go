package store

import "testing"

func TestPaginationValidate(t *testing.T) {
	tests := []struct {
		name       string
		in         PaginationParams
		wantLimit  int
		wantOffset int
	}{
		{"zero defaults", PaginationParams{}, DefaultLimit, 0},
		{"negative limit", PaginationParams{Limit: -5}, DefaultLimit, 0},
		{"over max", PaginationParams{Limit: 1000}, MaxLimit, 0},
		{"negative offset", PaginationParams{Limit: 10, Offset: -1}, 10, 0},
		{"valid passthrough", PaginationParams{Limit: 25, Offset: 50}, 25, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Validate()
			if tt.in.Limit != tt.wantLimit {
				t.Errorf("Limit: got %d, want %d", tt.in.Limit, tt.wantLimit)
			}
			if tt.in.Offset != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", tt.in.Offset, tt.wantOffset)
			}
		})
	}
}

func TestNewPaginatedResult(t *testing.T) {
	page := PaginationParams{Limit: 2, Offset: 0}
	res := NewPaginatedResult([]string{"a", "b"}, 5, page)

	if res.Total != 5 {
		t.Errorf("Total: got %d, want 5", res.Total)
	}
	if !res.HasMore {
		t.Error("expected HasMore with remaining items")
	}

	last := NewPaginatedResult([]string{"e"}, 5, PaginationParams{Limit: 2, Offset: 4})
	if last.HasMore {
		t.Error("expected HasMore=false on last page")
	}

	empty := NewPaginatedResult[string](nil, 0, page)
	if empty.Items == nil {
		t.Error("expected empty slice, got nil")
	}
}
