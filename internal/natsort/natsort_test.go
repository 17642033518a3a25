package natsort

import (
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.2", "1.9", -1},
		{"1.9", "1.10", -1},
		{"1.10", "1.2", 1},
		{"1.0", "1.0", 0},
		{"1.02", "1.2", 0},
		{"000", "0", 0},
		{"2", "10", -1},
		{"10", "2", 1},
		{"1", "1.1", -1},
		{"1.1", "1", 1},
		{"1.0a", "1.0A", 0},
		{"1.0a", "1.0b", -1},
		{"a1", "1a", 1},
		{"", "", 0},
		{"", "0", -1},
		{"alpha", "beta", -1},
		{"2024.1", "2024.01", 0},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareSortsVersions(t *testing.T) {
	t.Parallel()

	versions := []string{"1.9", "1.10", "1.2"}
	slices.SortFunc(versions, Compare)

	want := []string{"1.2", "1.9", "1.10"}
	if !slices.Equal(versions, want) {
		t.Fatalf("sorted = %v, want %v", versions, want)
	}
}
