package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Circle-circle intersection
// ============================================================

// Intersect returns the intersection points of the circle around a with
// radius r and the circle around b with radius s. Concentric circles
// have no intersection, even with equal radii. Root order carries no
// meaning; callers pick by their own criteria.
func Intersect(a geom.Coord, r float64, b geom.Coord, s float64) []geom.Coord {
	d := a.DistanceFrom(b)
	if d == 0 || d > r+s || d < math.Abs(r-s) {
		return nil
	}

	l := (r*r - s*s + d*d) / (2 * d)
	h := math.Sqrt(math.Max(r*r-l*l, 0))

	u := b.Minus(a).Times(1 / d)
	mid := a.Plus(u.Times(l))
	if h == 0 {
		return []geom.Coord{mid}
	}

	normal := geom.Coord{X: -u.Y, Y: u.X}
	return []geom.Coord{
		mid.Plus(normal.Times(h)),
		mid.Minus(normal.Times(h)),
	}
}
