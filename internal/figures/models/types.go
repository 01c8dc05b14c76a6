package models

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Shape specification
// ============================================================

// ShapeType identifies the solver a job is routed to.
type ShapeType string

const (
	ShapeUnknown        ShapeType = ""
	ShapeTriangle       ShapeType = "triangle"
	ShapeQuad           ShapeType = "quad"
	ShapePolygon        ShapeType = "polygon"
	ShapeCircle         ShapeType = "circle"
	ShapeArc            ShapeType = "arc"
	ShapeDoubleTriangle ShapeType = "double-triangle"
)

// ShapeHint records which keyword produced a spec. It is carried next to
// the values and never inferred later.
type ShapeHint struct {
	Type    string `json:"type"` // tri | quad
	Keyword string `json:"keyword"`
}

// ShapeSpec maps parameter keys (a-d sides, A-D angles, n, r) to values.
type ShapeSpec struct {
	Values map[string]float64 `json:"values"`
	Hint   *ShapeHint         `json:"hint,omitempty"`
}

// NewShapeSpec returns an empty spec with an allocated value map.
func NewShapeSpec() ShapeSpec {
	return ShapeSpec{Values: make(map[string]float64)}
}

func (s ShapeSpec) Get(key string) (float64, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s ShapeSpec) Has(key string) bool {
	_, ok := s.Values[key]
	return ok
}

func (s ShapeSpec) Set(key string, val float64) {
	s.Values[key] = val
}

func (s ShapeSpec) Empty() bool {
	return len(s.Values) == 0
}

// Clone copies the value map so solvers can mutate freely.
func (s ShapeSpec) Clone() ShapeSpec {
	out := ShapeSpec{Values: make(map[string]float64, len(s.Values))}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	if s.Hint != nil {
		hint := *s.Hint
		out.Hint = &hint
	}
	return out
}

// keyOrder is the canonical serialization order.
var keyOrder = []string{"n", "a", "b", "c", "d", "A", "B", "C", "D", "r"}

// Keys returns the spec keys in canonical order, unknown keys last.
func (s ShapeSpec) Keys() []string {
	seen := make(map[string]bool, len(s.Values))
	var keys []string
	for _, k := range keyOrder {
		if _, ok := s.Values[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range s.Values {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// String renders "a=5, b=5, B=90".
func (s ShapeSpec) String() string {
	parts := make([]string, 0, len(s.Values))
	for _, k := range s.Keys() {
		parts = append(parts, k+"="+FormatNumber(s.Values[k]))
	}
	return strings.Join(parts, ", ")
}

// FormatNumber prints at most four decimals and drops trailing zeros.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// ============================================================
// Decorations
// ============================================================

type DecorationKind string

const (
	DecorationDiagonal   DecorationKind = "diagonal"
	DecorationHeight     DecorationKind = "height"
	DecorationSemicircle DecorationKind = "semicircle"
	DecorationSquare     DecorationKind = "square"
)

// Decoration is a tagged union; only the fields of Kind are meaningful.
// Point references are resolved against the owning figure and dropped
// silently when they do not resolve.
type Decoration struct {
	Kind DecorationKind `json:"kind"`
	From string         `json:"from"`
	To   string         `json:"to,omitempty"`

	// height
	Base         string `json:"base,omitempty"`
	BaseSide     string `json:"baseSide,omitempty"`
	ExplicitBase bool   `json:"explicitBase,omitempty"`

	// semicircle
	Radius   float64 `json:"radius,omitempty"`
	Diameter float64 `json:"diameter,omitempty"`

	Text string `json:"text"`
}

// ============================================================
// Jobs & summaries
// ============================================================

// DoubleTriangleSpec holds the two independent triangles of a double triangle.
type DoubleTriangleSpec struct {
	First      ShapeSpec `json:"first"`
	Second     ShapeSpec `json:"second"`
	SharedSide string    `json:"sharedSide,omitempty"`
}

// RenderJob is one figure to render.
type RenderJob struct {
	Type        ShapeType           `json:"type"`
	Spec        ShapeSpec           `json:"spec"`
	Double      *DoubleTriangleSpec `json:"double,omitempty"`
	Labels      string              `json:"labels,omitempty"`
	Decorations []Decoration        `json:"decorations"`
	Source      string              `json:"source"`
	Normalized  string              `json:"normalized"`
}

// AngleMark is one drawn angle marker.
type AngleMark struct {
	Vertex  string  `json:"vertex"`
	Degrees float64 `json:"degrees"`
	Right   bool    `json:"right"`
}

// RenderSummary is what leaves the core for alt text and persistence.
type RenderSummary struct {
	Type        ShapeType          `json:"type"`
	Values      map[string]float64 `json:"values"`
	Decorations []string           `json:"decorations"`
	AngleMarks  []AngleMark        `json:"angleMarks"`
	Error       string             `json:"error,omitempty"`
}
