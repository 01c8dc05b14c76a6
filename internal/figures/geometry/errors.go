// Package geometry turns partial numeric figure specifications into
// concrete vertex coordinates. Angles are in degrees throughout; points
// live in an up-positive construction space.
package geometry

import (
	"errors"
	"math"

	"github.com/jbeda/geom"
)

var (
	// ErrInsufficientConstraints means the given parameters do not pin
	// down a figure.
	ErrInsufficientConstraints = errors.New("insufficient constraints")

	// ErrSharedSideMismatch means the two halves of a double triangle
	// have no side pair of matching length.
	ErrSharedSideMismatch = errors.New("shared side mismatch")

	// ErrGeometricDegeneracy marks a derived length or height of ~0.
	// Decorations that hit it are omitted, the figure still renders.
	ErrGeometricDegeneracy = errors.New("geometric degeneracy")
)

const (
	epsilon        = 1e-9
	angleTolerance = 1e-3
	rightTolerance = 1e-3
)

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func cross(u, v geom.Coord) float64 { return u.X*v.Y - u.Y*v.X }

func dot(u, v geom.Coord) float64 { return u.X*v.X + u.Y*v.Y }

func polar(length, degrees float64) geom.Coord {
	return geom.Coord{X: length * math.Cos(rad(degrees)), Y: length * math.Sin(rad(degrees))}
}
