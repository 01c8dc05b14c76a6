package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/jbeda/geom"
)

// ============================================================
// Double-Triangle Constructor
// ============================================================

const (
	sharedRelTolerance = 0.02
	sharedAbsTolerance = 1e-3
)

// DoubleTriangle is two triangles sharing the base AB. C is the apex of
// the first (above the base) and D the apex of the second (below it).
type DoubleTriangle struct {
	First, Second SolvedTriangle
	Shared        [2]string // side keys in the original labelling
	Points        [4]geom.Coord
}

// BuildDoubleTriangle solves both triangles, finds the side they share
// and mirrors them across it. shared may be a side key ("c") or a vertex
// pair ("AB"); empty means pick the closest matching pair.
func BuildDoubleTriangle(first, second map[string]float64, shared string) (DoubleTriangle, error) {
	t1, err := SolveTriangle(first)
	if err != nil {
		return DoubleTriangle{}, fmt.Errorf("triangle 1: %w", err)
	}
	t2, err := SolveTriangle(second)
	if err != nil {
		return DoubleTriangle{}, fmt.Errorf("triangle 2: %w", err)
	}

	i, j, err := pickSharedSides(t1, t2, shared)
	if err != nil {
		return DoubleTriangle{}, err
	}

	r1 := t1.Rotate(triSides[i])
	r2 := t2.Rotate(triSides[j])
	r2 = r2.Scale(r1.SideC / r2.SideC)

	upper := r1.Place()
	lower := r2.Place()
	return DoubleTriangle{
		First:  r1,
		Second: r2,
		Shared: [2]string{triSides[i], triSides[j]},
		Points: [4]geom.Coord{
			upper[0],
			upper[1],
			upper[2],
			{X: lower[2].X, Y: -lower[2].Y},
		},
	}, nil
}

func pickSharedSides(t1, t2 SolvedTriangle, shared string) (int, int, error) {
	i, j := -1, -1
	if k := SharedSideKey(shared); k >= 0 {
		i, j = k, k
	} else {
		// Same-letter pairs that already agree win over cross pairs.
		best := math.Inf(1)
		for k := range 3 {
			if rel := relDiff(t1.side(k), t2.side(k)); withinShared(t1.side(k), t2.side(k)) && rel < best {
				i, j, best = k, k, rel
			}
		}
		if i < 0 {
			for x := range 3 {
				for y := range 3 {
					if rel := relDiff(t1.side(x), t2.side(y)); rel < best {
						i, j, best = x, y, rel
					}
				}
			}
		}
	}

	l1, l2 := t1.side(i), t2.side(j)
	if !withinShared(l1, l2) {
		return 0, 0, fmt.Errorf("%w: side %s=%.4g and %s=%.4g differ", ErrSharedSideMismatch,
			triSides[i], l1, triSides[j], l2)
	}
	return i, j, nil
}

// SharedSideKey maps "c", "AB" or "BA" to the side index, -1 if unknown.
func SharedSideKey(label string) int {
	label = strings.TrimSpace(label)
	switch strings.ToUpper(label) {
	case "BC", "CB":
		return 0
	case "CA", "AC":
		return 1
	case "AB", "BA":
		return 2
	}
	switch label {
	case "a":
		return 0
	case "b":
		return 1
	case "c":
		return 2
	}
	return -1
}

func relDiff(x, y float64) float64 {
	return math.Abs(x-y) / math.Max(x, y)
}

func withinShared(x, y float64) bool {
	return math.Abs(x-y) <= sharedAbsTolerance || relDiff(x, y) <= sharedRelTolerance
}
