package render

import (
	"errors"
	"fmt"
	"slices"

	"figure-renderer/internal/figures/geometry"
	"figure-renderer/internal/figures/models"

	"github.com/jbeda/geom"
)

// ============================================================
// Decorations
// ============================================================

var errUnresolved = errors.New("unresolved point reference")

// rightMark is a right-angle square at a height's foot.
type rightMark struct {
	at, u, v geom.Coord
}

// decoration is a resolved decoration in construction space.
type decoration struct {
	source  models.Decoration
	lines   [][2]geom.Coord
	dashed  [][2]geom.Coord
	right   *rightMark
	arc     *geometry.Semicircle
	square  []geom.Coord
	label   string
	labelAt geom.Coord
}

func (d decoration) extent() []geom.Coord {
	var pts []geom.Coord
	for _, l := range d.lines {
		pts = append(pts, l[0], l[1])
	}
	for _, l := range d.dashed {
		pts = append(pts, l[0], l[1])
	}
	if d.arc != nil {
		pts = append(pts, d.arc.Extremes()...)
	}
	return append(pts, d.square...)
}

// resolveDecorations keeps the decorations whose references resolve in
// f and whose geometry is not degenerate.
func resolveDecorations(f *figure, decos []models.Decoration) []decoration {
	var out []decoration
	for _, d := range decos {
		r, err := resolveDecoration(f, d)
		if err != nil {
			Logger().Debug("render: decoration dropped", "decoration", d.Text, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

func resolveDecoration(f *figure, d models.Decoration) (decoration, error) {
	idx := f.labelIndex()
	from, ok := idx[d.From]
	if !ok {
		return decoration{}, fmt.Errorf("%w: %q", errUnresolved, d.From)
	}

	switch d.Kind {
	case models.DecorationDiagonal:
		to, ok := idx[d.To]
		if !ok || to == from {
			return decoration{}, fmt.Errorf("%w: %q", errUnresolved, d.To)
		}
		return decoration{source: d, lines: [][2]geom.Coord{{f.points[from], f.points[to]}}}, nil

	case models.DecorationHeight:
		a, b, err := heightBase(f, d, from, idx)
		if err != nil {
			return decoration{}, err
		}
		return heightDecoration(d, f.points[from], f.points[a], f.points[b])

	case models.DecorationSemicircle:
		to, ok := idx[d.To]
		if !ok || to == from {
			return decoration{}, fmt.Errorf("%w: %q", errUnresolved, d.To)
		}
		s, err := geometry.SemicircleOn(f.points[from], f.points[to], f.centroid())
		if err != nil {
			return decoration{}, err
		}
		out := decoration{source: d, arc: &s}
		switch {
		case d.Radius > 0:
			out.label = "r=" + models.FormatNumber(d.Radius)
		case d.Diameter > 0:
			out.label = "d=" + models.FormatNumber(d.Diameter)
		}
		out.labelAt = s.Center()
		return out, nil

	case models.DecorationSquare:
		to, ok := idx[d.To]
		if !ok || to == from {
			return decoration{}, fmt.Errorf("%w: %q", errUnresolved, d.To)
		}
		corners, err := geometry.SquareOn(f.points[from], f.points[to], f.centroid())
		if err != nil {
			return decoration{}, err
		}
		return decoration{
			source: d,
			square: []geom.Coord{f.points[from], f.points[to], corners[0], corners[1]},
		}, nil
	}
	return decoration{}, fmt.Errorf("unknown decoration %q", d.Kind)
}

// heightBase finds the base side of a height from vertex v. Without an
// explicit base it is the longest side of a face through v that does not
// touch v.
func heightBase(f *figure, d models.Decoration, v int, idx map[string]int) (int, int, error) {
	switch {
	case d.BaseSide != "":
		if ends, ok := f.sideKeys[d.BaseSide]; ok {
			return ends[0], ends[1], nil
		}
		if len(d.BaseSide) == 2 {
			a, okA := idx[d.BaseSide[:1]]
			b, okB := idx[d.BaseSide[1:]]
			if okA && okB && a != b {
				return a, b, nil
			}
		}
		return 0, 0, fmt.Errorf("%w: side %q", errUnresolved, d.BaseSide)

	case d.Base != "":
		start, ok := idx[d.Base]
		if !ok {
			return 0, 0, fmt.Errorf("%w: %q", errUnresolved, d.Base)
		}
		for _, face := range f.faces {
			for k, p := range face {
				if p == start {
					return start, face[(k+1)%len(face)], nil
				}
			}
		}
		return 0, 0, fmt.Errorf("%w: %q has no side", errUnresolved, d.Base)
	}

	best, a, b := -1.0, -1, -1
	for _, face := range f.faces {
		if !slices.Contains(face, v) {
			continue
		}
		for k := range face {
			p, q := face[k], face[(k+1)%len(face)]
			if p == v || q == v {
				continue
			}
			if l := f.points[p].DistanceFrom(f.points[q]); l > best {
				best, a, b = l, p, q
			}
		}
	}
	if a < 0 {
		return 0, 0, fmt.Errorf("%w: no base opposite %q", errUnresolved, d.From)
	}
	return a, b, nil
}

func heightDecoration(d models.Decoration, p, a, b geom.Coord) (decoration, error) {
	foot, err := geometry.HeightFoot(p, a, b)
	if err != nil {
		return decoration{}, err
	}
	out := decoration{source: d, lines: [][2]geom.Coord{{p, foot}}}

	// foot outside the side: extend it with a dashed line
	ab := b.Minus(a)
	t := ab.X*(foot.X-a.X) + ab.Y*(foot.Y-a.Y)
	t /= ab.X*ab.X + ab.Y*ab.Y
	switch {
	case t < 0:
		out.dashed = append(out.dashed, [2]geom.Coord{a, foot})
	case t > 1:
		out.dashed = append(out.dashed, [2]geom.Coord{b, foot})
	}

	along := a
	if a.DistanceFrom(foot) < b.DistanceFrom(foot) {
		along = b
	}
	out.right = &rightMark{
		at: foot,
		u:  along.Minus(foot).Unit(),
		v:  p.Minus(foot).Unit(),
	}
	return out, nil
}
