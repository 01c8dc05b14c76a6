package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Regular polygons, circles, semicircles
// ============================================================

// RegularPolygon returns the n vertices of a regular polygon with the
// given side, counter-clockwise, first side horizontal at the bottom and
// centred on the origin.
func RegularPolygon(n int, side float64) ([]geom.Coord, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 sides, got %d", ErrInsufficientConstraints, n)
	}
	if !positiveFinite(side) {
		return nil, fmt.Errorf("%w: polygon side must be positive", ErrInsufficientConstraints)
	}

	radius := side / (2 * math.Sin(math.Pi/float64(n)))
	start := -90 - 180/float64(n)
	step := 360 / float64(n)

	pts := make([]geom.Coord, n)
	for i := range pts {
		pts[i] = polar(radius, start+step*float64(i))
	}
	return pts, nil
}

// PolygonSide derives the side length from a circumradius.
func PolygonSide(n int, radius float64) float64 {
	return 2 * radius * math.Sin(math.Pi/float64(n))
}

// Circle is a centre and radius.
type Circle struct {
	Center geom.Coord
	Radius float64
}

func NewCircle(radius float64) (Circle, error) {
	if !positiveFinite(radius) {
		return Circle{}, fmt.Errorf("%w: circle needs a positive radius or diameter", ErrInsufficientConstraints)
	}
	return Circle{Radius: radius}, nil
}

// Bounds is the circle's bounding box.
func (c Circle) Bounds() geom.Rect {
	r := geom.Coord{X: c.Radius, Y: c.Radius}
	return geom.Rect{Min: c.Center.Minus(r), Max: c.Center.Plus(r)}
}

// Semicircle is the half disc on the right of the diameter From->To.
type Semicircle struct {
	From, To geom.Coord
}

func NewSemicircle(radius float64) (Semicircle, error) {
	if !positiveFinite(radius) {
		return Semicircle{}, fmt.Errorf("%w: semicircle needs a positive radius or diameter", ErrInsufficientConstraints)
	}
	return Semicircle{From: geom.Coord{X: radius}, To: geom.Coord{X: -radius}}, nil
}

// SemicircleOn builds the half disc over from-to on the side away from
// the reference point (usually the owning figure's centroid).
func SemicircleOn(from, to, away geom.Coord) (Semicircle, error) {
	if from.DistanceFrom(to) <= epsilon {
		return Semicircle{}, ErrGeometricDegeneracy
	}
	if cross(to.Minus(from), away.Minus(from)) < 0 {
		from, to = to, from
	}
	return Semicircle{From: from, To: to}, nil
}

func (s Semicircle) Center() geom.Coord { return s.From.Plus(s.To).Times(0.5) }

func (s Semicircle) Radius() float64 { return s.From.DistanceFrom(s.To) / 2 }

// Apex is the arc point furthest from the diameter. The arc runs on the
// right of From->To.
func (s Semicircle) Apex() geom.Coord {
	dir := s.To.Minus(s.From).Unit()
	return s.Center().Plus(geom.Coord{X: dir.Y, Y: -dir.X}.Times(s.Radius()))
}

// Extremes returns points whose bounding box covers the arc.
func (s Semicircle) Extremes() []geom.Coord {
	c, r := s.Center(), s.Radius()
	dir := s.To.Minus(s.From).Unit()
	out := []geom.Coord{s.From, s.To, s.Apex()}
	// axis-aligned extremes that lie on the arc side
	for _, u := range []geom.Coord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
		if cross(dir, u) <= 0 {
			out = append(out, c.Plus(u.Times(r)))
		}
	}
	return out
}

// SquareOn returns the two far corners of the square erected on from-to,
// away from the reference point.
func SquareOn(from, to, away geom.Coord) ([2]geom.Coord, error) {
	side := to.Minus(from)
	if side.Magnitude() <= epsilon {
		return [2]geom.Coord{}, ErrGeometricDegeneracy
	}
	normal := geom.Coord{X: side.Y, Y: -side.X}
	if dot(normal, away.Minus(from)) > 0 {
		normal = normal.Times(-1)
	}
	return [2]geom.Coord{to.Plus(normal), from.Plus(normal)}, nil
}

// HeightFoot drops a perpendicular from p onto the line through a and b.
func HeightFoot(p, a, b geom.Coord) (geom.Coord, error) {
	ab := b.Minus(a)
	l2 := dot(ab, ab)
	if l2 <= epsilon {
		return geom.Coord{}, ErrGeometricDegeneracy
	}
	t := dot(p.Minus(a), ab) / l2
	foot := a.Plus(ab.Times(t))
	if foot.DistanceFrom(p) <= epsilon {
		return geom.Coord{}, ErrGeometricDegeneracy
	}
	return foot, nil
}

// Centroid is the vertex average.
func Centroid(pts []geom.Coord) geom.Coord {
	var sum geom.Coord
	for _, p := range pts {
		sum = sum.Plus(p)
	}
	if len(pts) == 0 {
		return sum
	}
	return sum.Times(1 / float64(len(pts)))
}
