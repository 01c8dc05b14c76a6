package render

import (
	"fmt"
	"math"

	"figure-renderer/internal/figures/geometry"
	"figure-renderer/internal/figures/models"

	"github.com/jbeda/geom"
)

// ============================================================
// Solved figures in construction space
// ============================================================

type sideLabel struct {
	from, to int
	key      string
	value    float64
}

type angleMark struct {
	vertex, prev, next int
	degrees            float64
}

// figure is one solved shape before layout. faces are closed polygons
// over points; spokes are open segments such as a circle's radius.
type figure struct {
	kind     models.ShapeType
	points   []geom.Coord
	labels   []string
	faces    [][]int
	spokes   [][2]int
	circle   *geometry.Circle
	arc      *geometry.Semicircle
	sides    []sideLabel
	angles   []angleMark
	values   map[string]float64
	sideKeys map[string][2]int
}

// buildFigure routes a job to its solver.
func buildFigure(job models.RenderJob) (*figure, error) {
	switch job.Type {
	case models.ShapeTriangle:
		return triangleFigure(job.Spec)
	case models.ShapeQuad:
		return quadFigure(job.Spec)
	case models.ShapeDoubleTriangle:
		return doubleFigure(job.Double)
	case models.ShapePolygon:
		return polygonFigure(job.Spec)
	case models.ShapeCircle:
		return circleFigure(job.Spec)
	case models.ShapeArc:
		return arcFigure(job.Spec, job.Labels)
	}
	return nil, fmt.Errorf("unknown figure type %q", job.Type)
}

func triangleFigure(spec models.ShapeSpec) (*figure, error) {
	t, err := geometry.SolveTriangle(spec.Values)
	if err != nil {
		return nil, err
	}
	pts := t.Place()
	return &figure{
		kind:   models.ShapeTriangle,
		points: pts[:],
		labels: []string{"A", "B", "C"},
		faces:  [][]int{{0, 1, 2}},
		sides: []sideLabel{
			{from: 1, to: 2, key: "a", value: t.SideA},
			{from: 2, to: 0, key: "b", value: t.SideB},
			{from: 0, to: 1, key: "c", value: t.SideC},
		},
		angles: []angleMark{
			{vertex: 0, prev: 2, next: 1, degrees: t.AngleA},
			{vertex: 1, prev: 0, next: 2, degrees: t.AngleB},
			{vertex: 2, prev: 1, next: 0, degrees: t.AngleC},
		},
		values:   t.Values(),
		sideKeys: map[string][2]int{"a": {1, 2}, "b": {2, 0}, "c": {0, 1}},
	}, nil
}

func quadFigure(spec models.ShapeSpec) (*figure, error) {
	q, err := geometry.BuildQuad(spec.Values)
	if err != nil {
		return nil, err
	}
	f := &figure{
		kind:     models.ShapeQuad,
		points:   q.Points[:],
		labels:   []string{"A", "B", "C", "D"},
		faces:    [][]int{{0, 1, 2, 3}},
		values:   q.Values(),
		sideKeys: make(map[string][2]int, 4),
	}
	for i, key := range []string{"a", "b", "c", "d"} {
		next := (i + 1) % 4
		f.sides = append(f.sides, sideLabel{from: i, to: next, key: key, value: f.values[key]})
		f.sideKeys[key] = [2]int{i, next}
	}
	for i, key := range []string{"A", "B", "C", "D"} {
		f.angles = append(f.angles, angleMark{vertex: i, prev: (i + 3) % 4, next: (i + 1) % 4, degrees: f.values[key]})
	}
	return f, nil
}

func doubleFigure(spec *models.DoubleTriangleSpec) (*figure, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: double triangle needs two triangles", geometry.ErrInsufficientConstraints)
	}
	dt, err := geometry.BuildDoubleTriangle(spec.First.Values, spec.Second.Values, spec.SharedSide)
	if err != nil {
		return nil, err
	}
	t1, t2 := dt.First, dt.Second
	values := make(map[string]float64, 12)
	for k, v := range t1.Values() {
		values[k+"1"] = v
	}
	for k, v := range t2.Values() {
		values[k+"2"] = v
	}
	return &figure{
		kind:   models.ShapeDoubleTriangle,
		points: dt.Points[:],
		labels: []string{"A", "B", "C", "D"},
		faces:  [][]int{{0, 1, 2}, {0, 1, 3}},
		sides: []sideLabel{
			{from: 0, to: 1, key: "c", value: t1.SideC},
			{from: 1, to: 2, key: "a", value: t1.SideA},
			{from: 2, to: 0, key: "b", value: t1.SideB},
			{from: 1, to: 3, key: "a", value: t2.SideA},
			{from: 3, to: 0, key: "b", value: t2.SideB},
		},
		angles: []angleMark{
			{vertex: 2, prev: 1, next: 0, degrees: t1.AngleC},
			{vertex: 3, prev: 0, next: 1, degrees: t2.AngleC},
			{vertex: 0, prev: 2, next: 1, degrees: t1.AngleA},
			{vertex: 1, prev: 0, next: 2, degrees: t1.AngleB},
			{vertex: 0, prev: 1, next: 3, degrees: t2.AngleA},
			{vertex: 1, prev: 3, next: 0, degrees: t2.AngleB},
		},
		values:   values,
		sideKeys: map[string][2]int{"c": {0, 1}, "a": {1, 2}, "b": {2, 0}},
	}, nil
}

func polygonFigure(spec models.ShapeSpec) (*figure, error) {
	n := int(math.Round(spec.Values["n"]))
	side, ok := spec.Get("a")
	if !ok {
		if r, ok := spec.Get("r"); ok && n >= 3 {
			side = geometry.PolygonSide(n, r)
		}
	}
	pts, err := geometry.RegularPolygon(n, side)
	if err != nil {
		return nil, err
	}

	f := &figure{
		kind:     models.ShapePolygon,
		points:   pts,
		labels:   make([]string, n),
		faces:    [][]int{make([]int, n)},
		sideKeys: make(map[string][2]int),
	}
	for i := range n {
		f.labels[i] = vertexLabel(i)
		f.faces[0][i] = i
	}
	interior := float64(n-2) * 180 / float64(n)
	f.sides = []sideLabel{{from: 0, to: 1, key: "a", value: side}}
	f.sideKeys["a"] = [2]int{0, 1}
	f.angles = []angleMark{{vertex: 1, prev: 0, next: 2, degrees: interior}}
	f.values = map[string]float64{
		"n": float64(n),
		"a": side,
		"r": side / (2 * math.Sin(math.Pi/float64(n))),
		"A": interior,
	}
	return f, nil
}

func circleFigure(spec models.ShapeSpec) (*figure, error) {
	c, err := geometry.NewCircle(radiusOf(spec))
	if err != nil {
		return nil, err
	}
	return &figure{
		kind:   models.ShapeCircle,
		points: []geom.Coord{c.Center, c.Center.Plus(geom.Coord{X: c.Radius})},
		labels: []string{"M", ""},
		spokes: [][2]int{{0, 1}},
		circle: &c,
		sides:  []sideLabel{{from: 0, to: 1, key: "r", value: c.Radius}},
		values: map[string]float64{"r": c.Radius, "d": 2 * c.Radius},
	}, nil
}

func arcFigure(spec models.ShapeSpec, labels string) (*figure, error) {
	s, err := geometry.NewSemicircle(radiusOf(spec))
	if err != nil {
		return nil, err
	}
	if len(labels) != 2 {
		labels = "AB"
	}
	r := s.Radius()
	return &figure{
		kind:     models.ShapeArc,
		points:   []geom.Coord{s.To, s.From},
		labels:   []string{labels[:1], labels[1:]},
		arc:      &s,
		sides:    []sideLabel{{from: 0, to: 1, key: "d", value: 2 * r}},
		values:   map[string]float64{"r": r, "d": 2 * r},
		sideKeys: map[string][2]int{"d": {0, 1}},
	}, nil
}

func radiusOf(spec models.ShapeSpec) float64 {
	if r, ok := spec.Get("r"); ok {
		return r
	}
	if d, ok := spec.Get("d"); ok {
		return d / 2
	}
	return 0
}

func vertexLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("P%d", i+1)
}

// labelIndex maps point labels to indexes; unlabelled points are skipped.
func (f *figure) labelIndex() map[string]int {
	idx := make(map[string]int, len(f.labels))
	for i, l := range f.labels {
		if l != "" {
			idx[l] = i
		}
	}
	return idx
}

// extent is every construction-space point the panel must contain.
func (f *figure) extent() []geom.Coord {
	pts := append([]geom.Coord(nil), f.points...)
	if f.circle != nil {
		b := f.circle.Bounds()
		pts = append(pts, b.Min, b.Max)
	}
	if f.arc != nil {
		pts = append(pts, f.arc.Extremes()...)
	}
	return pts
}

func (f *figure) centroid() geom.Coord {
	if f.circle != nil {
		return f.circle.Center
	}
	if f.arc != nil {
		return f.arc.Center()
	}
	return geometry.Centroid(f.points)
}

func (f *figure) summaryValues() map[string]float64 {
	out := make(map[string]float64, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
