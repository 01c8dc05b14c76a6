package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Quadrilateral Constructor
// ============================================================

var (
	quadSides  = [4]string{"a", "b", "c", "d"}
	quadAngles = [4]string{"A", "B", "C", "D"}
)

// Quad is a counter-clockwise ABCD with side a = AB, b = BC, c = CD and
// d = DA. A sits at the origin and B on the +x axis.
type Quad struct {
	Points [4]geom.Coord
}

// Values measures the constructed quadrilateral.
func (q Quad) Values() map[string]float64 {
	pts := q.Points[:]
	out := make(map[string]float64, 8)
	for i := range 4 {
		out[quadSides[i]] = pts[i].DistanceFrom(pts[(i+1)%4])
		out[quadAngles[i]] = InteriorAngle(pts, i)
	}
	return out
}

// BuildQuad places four vertices from sides a, b, c (d optional) plus
// either exactly one angle or exactly the pair {B, D}.
func BuildQuad(values map[string]float64) (Quad, error) {
	var sides [4]float64
	for i := range 3 {
		v, ok := values[quadSides[i]]
		if !ok || !positiveFinite(v) {
			return Quad{}, fmt.Errorf("%w: quadrilateral needs sides a, b and c", ErrInsufficientConstraints)
		}
		sides[i] = v
	}

	var given []int
	for i, k := range quadAngles {
		if v, ok := values[k]; ok && positiveFinite(v) {
			given = append(given, i)
		}
	}

	switch {
	case len(given) == 1:
		if d, ok := values["d"]; ok && positiveFinite(d) {
			sides[3] = d
		} else {
			sides[3] = sides[1]
		}
		v := given[0]
		return buildFromAngle(sides, v, values[quadAngles[v]])
	case len(given) == 2 && given[0] == 1 && given[1] == 3:
		return buildFromOpposite(sides, values["B"], values["D"])
	}
	return Quad{}, fmt.Errorf("%w: quadrilateral needs exactly one angle or exactly B and D, got %d angles", ErrInsufficientConstraints, len(given))
}

// buildFromAngle puts the constrained vertex at the origin, places its two
// neighbours by the angle and closes the opposite vertex with two circles.
// Side i runs from vertex i to vertex i+1.
func buildFromAngle(sides [4]float64, v int, angle float64) (Quad, error) {
	if angle >= 180 {
		return Quad{}, fmt.Errorf("%w: angle %s=%.4g must be below 180", ErrInsufficientConstraints, quadAngles[v], angle)
	}
	next, opp, prev := (v+1)%4, (v+2)%4, (v+3)%4

	var pts [4]geom.Coord
	pts[v] = geom.Coord{}
	pts[next] = geom.Coord{X: sides[v]}
	pts[prev] = polar(sides[prev], angle)

	roots := Intersect(pts[next], sides[next], pts[prev], sides[opp])
	if len(roots) == 0 {
		return Quad{}, fmt.Errorf("%w: sides %s and %s cannot meet at %s", ErrInsufficientConstraints,
			quadSides[next], quadSides[opp], quadAngles[opp])
	}

	var best [4]geom.Coord
	bestArea, bestDev := math.Inf(-1), math.Inf(1)
	for _, root := range validRoots(pts, opp, roots) {
		cand := pts
		cand[opp] = root
		area := SignedArea(cand[:])

		// C and D keep the requested angle; A and B keep the winding.
		if v >= 2 {
			dev := math.Abs(InteriorAngle(cand[:], v) - angle)
			if dev < bestDev-epsilon || (math.Abs(dev-bestDev) <= epsilon && area > bestArea) {
				best, bestArea, bestDev = cand, area, dev
			}
			continue
		}
		if area > bestArea {
			best, bestArea = cand, area
		}
	}
	return Quad{Points: normalizeQuad(best)}, nil
}

// buildFromOpposite handles {B, D}: d comes from the diagonal AC and the
// law of cosines at D.
func buildFromOpposite(sides [4]float64, angleB, angleD float64) (Quad, error) {
	if angleB >= 180 || angleD >= 180 {
		return Quad{}, fmt.Errorf("%w: angles B and D must be below 180", ErrInsufficientConstraints)
	}
	a, b, c := sides[0], sides[1], sides[2]
	pa := geom.Coord{}
	pb := geom.Coord{X: a}
	pc := pb.Plus(polar(b, 180-angleB))

	ac := pa.DistanceFrom(pc)
	sinD, cosD := math.Sin(rad(angleD)), math.Cos(rad(angleD))
	disc := ac*ac - c*c*sinD*sinD
	if disc < 0 {
		return Quad{}, fmt.Errorf("%w: diagonal AC=%.4g too short for c=%.4g at D=%.4g", ErrInsufficientConstraints, ac, c, angleD)
	}
	d := c*cosD + math.Sqrt(disc)
	if d <= epsilon {
		return Quad{}, fmt.Errorf("%w: side d vanishes", ErrInsufficientConstraints)
	}

	pts := [4]geom.Coord{pa, pb, pc, {}}
	roots := Intersect(pa, d, pc, c)
	if len(roots) == 0 {
		return Quad{}, fmt.Errorf("%w: vertex D cannot be closed", ErrInsufficientConstraints)
	}
	var best [4]geom.Coord
	bestArea := math.Inf(-1)
	for _, root := range roots {
		cand := pts
		cand[3] = root
		if area := SignedArea(cand[:]); area > bestArea {
			best, bestArea = cand, area
		}
	}
	return Quad{Points: normalizeQuad(best)}, nil
}

// validRoots keeps the roots that give a simple, non-degenerate polygon.
// If none do, all roots are returned so the caller still picks one.
func validRoots(pts [4]geom.Coord, at int, roots []geom.Coord) []geom.Coord {
	var out []geom.Coord
	for _, r := range roots {
		cand := pts
		cand[at] = r
		if math.Abs(SignedArea(cand[:])) > epsilon && Simple(cand[:]) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return roots
	}
	return out
}

// normalizeQuad moves A to the origin, turns AB onto +x and makes the
// winding counter-clockwise.
func normalizeQuad(pts [4]geom.Coord) [4]geom.Coord {
	origin := pts[0]
	dir := pts[1].Minus(origin)
	theta := math.Atan2(dir.Y, dir.X)
	sin, cos := math.Sin(-theta), math.Cos(-theta)

	var out [4]geom.Coord
	for i, p := range pts {
		q := p.Minus(origin)
		out[i] = geom.Coord{X: q.X*cos - q.Y*sin, Y: q.X*sin + q.Y*cos}
	}
	if SignedArea(out[:]) < 0 {
		for i := range out {
			out[i].Y = -out[i].Y
		}
	}
	return out
}

// ============================================================
// Polygon helpers
// ============================================================

// SignedArea is positive for counter-clockwise polygons.
func SignedArea(pts []geom.Coord) float64 {
	area := 0.0
	for i := range pts {
		area += cross(pts[i], pts[(i+1)%len(pts)])
	}
	return area / 2
}

// InteriorAngle measures the polygon's inner angle at vertex i in
// degrees, honouring its winding.
func InteriorAngle(pts []geom.Coord, i int) float64 {
	n := len(pts)
	v := pts[i]
	toNext := pts[(i+1)%n].Minus(v)
	toPrev := pts[(i+n-1)%n].Minus(v)

	theta := deg(math.Atan2(cross(toNext, toPrev), dot(toNext, toPrev)))
	if theta < 0 {
		theta += 360
	}
	if SignedArea(pts) < 0 {
		theta = 360 - theta
	}
	return theta
}

// Simple reports whether no two non-adjacent edges cross.
func Simple(pts []geom.Coord) bool {
	n := len(pts)
	for i := range n {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

func segmentsCross(p1, p2, p3, p4 geom.Coord) bool {
	d1 := cross(p4.Minus(p3), p1.Minus(p3))
	d2 := cross(p4.Minus(p3), p2.Minus(p3))
	d3 := cross(p2.Minus(p1), p3.Minus(p1))
	d4 := cross(p2.Minus(p1), p4.Minus(p1))
	return ((d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon)) &&
		((d3 > epsilon && d4 < -epsilon) || (d3 < -epsilon && d4 > epsilon))
}
