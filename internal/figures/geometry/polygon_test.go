package geometry

import (
	"errors"
	"testing"

	"github.com/jbeda/geom"
)

func TestRegularPolygon(t *testing.T) {
	for _, n := range []int{3, 4, 5, 6, 8, 12} {
		pts, err := RegularPolygon(n, 4)
		if err != nil {
			t.Fatalf("RegularPolygon(%d): %v", n, err)
		}
		if len(pts) != n {
			t.Fatalf("RegularPolygon(%d) returned %d points", n, len(pts))
		}
		for i := range pts {
			if s := pts[i].DistanceFrom(pts[(i+1)%n]); !near(s, 4, 1e-9) {
				t.Errorf("n=%d side %d = %v, want 4", n, i, s)
			}
		}
		if !near(pts[0].Y, pts[1].Y, 1e-9) || pts[0].X >= pts[1].X {
			t.Errorf("n=%d first side is not horizontal left-to-right: %v %v", n, pts[0], pts[1])
		}
		if SignedArea(pts) <= 0 {
			t.Errorf("n=%d winding is not counter-clockwise", n)
		}
	}
}

func TestRegularPolygonInvalid(t *testing.T) {
	if _, err := RegularPolygon(2, 4); !errors.Is(err, ErrInsufficientConstraints) {
		t.Errorf("n=2 error = %v", err)
	}
	if _, err := RegularPolygon(5, 0); !errors.Is(err, ErrInsufficientConstraints) {
		t.Errorf("side=0 error = %v", err)
	}
}

func TestPolygonSideRoundTrip(t *testing.T) {
	side := PolygonSide(6, 3)
	if !near(side, 3, 1e-9) {
		t.Errorf("hexagon side from radius 3 = %v, want 3", side)
	}
}

func TestSemicircleApex(t *testing.T) {
	s, err := NewSemicircle(3)
	if err != nil {
		t.Fatal(err)
	}
	apex := s.Apex()
	if !near(apex.X, 0, 1e-9) || !near(apex.Y, 3, 1e-9) {
		t.Errorf("apex = %v, want (0,3)", apex)
	}
	var box geom.Rect
	box.Min, box.Max = s.From, s.From
	for _, p := range s.Extremes() {
		box.ExpandToContainCoord(p)
	}
	if !near(box.Width(), 6, 1e-9) || !near(box.Height(), 3, 1e-9) {
		t.Errorf("extremes box = %vx%v, want 6x3", box.Width(), box.Height())
	}
}

func TestSemicircleOnFacesAway(t *testing.T) {
	from, to := geom.Coord{}, geom.Coord{X: 4}
	for _, away := range []geom.Coord{{X: 2, Y: 3}, {X: 2, Y: -3}} {
		s, err := SemicircleOn(from, to, away)
		if err != nil {
			t.Fatal(err)
		}
		if apex := s.Apex(); apex.Y*away.Y >= 0 {
			t.Errorf("away %v: apex %v on the same side", away, apex)
		}
	}
	if _, err := SemicircleOn(from, from, geom.Coord{Y: 1}); !errors.Is(err, ErrGeometricDegeneracy) {
		t.Errorf("degenerate diameter error = %v", err)
	}
}

func TestSquareOnFacesAway(t *testing.T) {
	corners, err := SquareOn(geom.Coord{}, geom.Coord{X: 2}, geom.Coord{X: 1, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !near(corners[0].X, 2, 1e-9) || !near(corners[0].Y, -2, 1e-9) || !near(corners[1].Y, -2, 1e-9) {
		t.Errorf("corners = %v, want (2,-2) (0,-2)", corners)
	}
}

func TestHeightFoot(t *testing.T) {
	foot, err := HeightFoot(geom.Coord{X: 1, Y: 3}, geom.Coord{}, geom.Coord{X: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !near(foot.X, 1, 1e-9) || !near(foot.Y, 0, 1e-9) {
		t.Errorf("foot = %v, want (1,0)", foot)
	}
	if _, err := HeightFoot(geom.Coord{X: 1}, geom.Coord{}, geom.Coord{X: 4}); !errors.Is(err, ErrGeometricDegeneracy) {
		t.Errorf("zero height error = %v", err)
	}
	if _, err := HeightFoot(geom.Coord{X: 1, Y: 1}, geom.Coord{}, geom.Coord{}); !errors.Is(err, ErrGeometricDegeneracy) {
		t.Errorf("zero base error = %v", err)
	}
}
