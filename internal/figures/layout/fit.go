// Package layout maps construction-space geometry into drawing panels.
package layout

import (
	"errors"
	"math"

	"github.com/jbeda/geom"
)

var ErrEmptyGeometry = errors.New("layout: no points to fit")

// Transform maps construction space (y up) into a panel (y down).
type Transform struct {
	Scale  float64
	Bounds geom.Rect
	Origin geom.Coord
}

// Map applies the transform to one point.
func (t Transform) Map(p geom.Coord) geom.Coord {
	return geom.Coord{
		X: t.Origin.X + (p.X-t.Bounds.Min.X)*t.Scale,
		Y: t.Origin.Y + (t.Bounds.Max.Y-p.Y)*t.Scale,
	}
}

func (t Transform) MapAll(pts []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(pts))
	for i, p := range pts {
		out[i] = t.Map(p)
	}
	return out
}

// Bounds returns the bounding box of pts.
func Bounds(pts []geom.Coord) (geom.Rect, error) {
	if len(pts) == 0 {
		return geom.Rect{}, ErrEmptyGeometry
	}
	box := geom.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.ExpandToContainCoord(p)
	}
	return box, nil
}

// Fit computes the uniform scale that fits pts into a width x height
// panel with margin on every side, and the translate that puts the
// bounding box's minimum corner at the margin. A box that is flat along
// one axis is scaled by the other; a single point gets scale 1.
func Fit(pts []geom.Coord, width, height, margin float64) (Transform, error) {
	box, err := Bounds(pts)
	if err != nil {
		return Transform{}, err
	}

	innerW := math.Max(width-2*margin, 1)
	innerH := math.Max(height-2*margin, 1)
	bw, bh := box.Width(), box.Height()

	scale := 1.0
	switch {
	case bw > 1e-12 && bh > 1e-12:
		scale = math.Min(innerW/bw, innerH/bh)
	case bw > 1e-12:
		scale = innerW / bw
	case bh > 1e-12:
		scale = innerH / bh
	}

	return Transform{
		Scale:  scale,
		Bounds: box,
		Origin: geom.Coord{X: margin, Y: margin},
	}, nil
}
