package textutil

import (
	"slices"
	"testing"
)

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"Episode 2", "Episode 10", -1},
		{"Episode 10", "Episode 2", 1},
		{"a", "A", 0},
		{"ep02", "ep2", 1},
		{"ep2", "ep02", -1},
		{"show", "show 1", -1},
		{"1", "2", -1},
		{"", "", 0},
		{"x100", "x99", 1},
		{"Café 3", "café 3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := NaturalCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalCompare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSortNatural(t *testing.T) {
	values := []string{"ep10.mkv", "Ep2.mkv", "ep1.mkv", "ep01.mkv", "B.mkv", "a.mkv"}
	SortNatural(values)
	want := []string{"a.mkv", "B.mkv", "ep1.mkv", "ep01.mkv", "Ep2.mkv", "ep10.mkv"}
	if !slices.Equal(values, want) {
		t.Fatalf("SortNatural = %v, want %v", values, want)
	}
}

func TestNaturalLessIsTotal(t *testing.T) {
	if NaturalLess("a", "A") == NaturalLess("A", "a") {
		t.Fatal("expected byte-order tie break for naturally equal strings")
	}
}
