package store

import "testing"

func TestPaginationValidate(t *testing.T) {
	cases := []struct {
		name       string
		in         PaginationParams
		wantLimit  int
		wantOffset int
	}{
		{"zero limit means unlimited", PaginationParams{Limit: 0}, -1, 0},
		{"negative limit means unlimited", PaginationParams{Limit: -5}, -1, 0},
		{"valid limit kept", PaginationParams{Limit: 6}, 6, 0},
		{"large limit kept", PaginationParams{Limit: 500}, 500, 0},
		{"negative offset reset", PaginationParams{Limit: 10, Offset: -1}, 10, 0},
		{"valid offset kept", PaginationParams{Limit: 10, Offset: 40}, 10, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Validate()
			if tc.in.Limit != tc.wantLimit {
				t.Errorf("Limit: got %d, want %d", tc.in.Limit, tc.wantLimit)
			}
			if tc.in.Offset != tc.wantOffset {
				t.Errorf("Offset: got %d, want %d", tc.in.Offset, tc.wantOffset)
			}
		})
	}
}
