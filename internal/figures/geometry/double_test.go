package geometry

import (
	"errors"
	"testing"
)

func TestBuildDoubleTriangleExplicitSharedSide(t *testing.T) {
	first := map[string]float64{"a": 3, "b": 4, "c": 5}
	second := map[string]float64{"a": 4, "b": 4, "c": 5}

	dt, err := BuildDoubleTriangle(first, second, "AB")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Shared != [2]string{"c", "c"} {
		t.Errorf("Shared = %v, want [c c]", dt.Shared)
	}
	if dt.Points[2].Y <= 0 {
		t.Errorf("first apex y = %v, want > 0", dt.Points[2].Y)
	}
	if dt.Points[3].Y >= 0 {
		t.Errorf("second apex y = %v, want < 0", dt.Points[3].Y)
	}
	if base := dt.Points[0].DistanceFrom(dt.Points[1]); !near(base, 5, 1e-9) {
		t.Errorf("base = %v, want 5", base)
	}
	if !near(dt.Points[3].DistanceFrom(dt.Points[0]), 4, 1e-9) {
		t.Errorf("second triangle side b not preserved")
	}
}

func TestBuildDoubleTriangleClosestPair(t *testing.T) {
	// second triangle's side a matches first triangle's side b
	first := map[string]float64{"a": 6, "b": 7, "c": 8}
	second := map[string]float64{"a": 7.05, "b": 5, "c": 9}

	dt, err := BuildDoubleTriangle(first, second, "")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Shared != [2]string{"b", "a"} {
		t.Errorf("Shared = %v, want [b a]", dt.Shared)
	}
	if !near(dt.First.SideC, 7, 1e-9) || !near(dt.Second.SideC, 7, 1e-9) {
		t.Errorf("bases = %v, %v, want 7", dt.First.SideC, dt.Second.SideC)
	}
	if dt.Points[2].Y <= 0 || dt.Points[3].Y >= 0 {
		t.Errorf("apexes not on opposite sides: %v, %v", dt.Points[2], dt.Points[3])
	}
}

func TestBuildDoubleTriangleSameLetterPreferred(t *testing.T) {
	// c/c agree exactly; a(first)/b(second) would be closer in absolute
	// terms but same-letter pairs win.
	first := map[string]float64{"a": 5, "b": 6, "c": 7}
	second := map[string]float64{"a": 3, "b": 5, "c": 7}

	dt, err := BuildDoubleTriangle(first, second, "")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Shared != [2]string{"c", "c"} {
		t.Errorf("Shared = %v, want [c c]", dt.Shared)
	}
}

func TestBuildDoubleTriangleMismatch(t *testing.T) {
	tests := []struct {
		name   string
		shared string
	}{
		{"explicit label", "AB"},
		{"closest pair", ""},
	}
	first := map[string]float64{"a": 3, "b": 4, "c": 5}
	second := map[string]float64{"a": 10, "b": 11, "c": 12}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDoubleTriangle(first, second, tt.shared)
			if !errors.Is(err, ErrSharedSideMismatch) {
				t.Errorf("error = %v, want ErrSharedSideMismatch", err)
			}
		})
	}
}

func TestBuildDoubleTriangleUnsolvable(t *testing.T) {
	_, err := BuildDoubleTriangle(map[string]float64{"a": 3}, map[string]float64{"a": 3, "b": 4, "c": 5}, "")
	if !errors.Is(err, ErrInsufficientConstraints) {
		t.Errorf("error = %v, want ErrInsufficientConstraints", err)
	}
}

func TestSharedSideKey(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"AB", 2}, {"ba", 2}, {"c", 2},
		{"BC", 0}, {"a", 0},
		{"CA", 1}, {"AC", 1}, {"b", 1},
		{"", -1}, {"XY", -1}, {"C", -1},
	}
	for _, tt := range tests {
		if got := SharedSideKey(tt.in); got != tt.want {
			t.Errorf("SharedSideKey(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
