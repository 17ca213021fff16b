package page

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{26, 20, 2},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tt := range tests {
		r := Response{Total: tt.total, Size: tt.size}
		if got := r.TotalPages(); got != tt.want {
			t.Errorf("TotalPages(total=%d, size=%d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
