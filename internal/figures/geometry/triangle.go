package geometry

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Triangle Solver
// ============================================================

var (
	triSides  = [3]string{"a", "b", "c"}
	triAngles = [3]string{"A", "B", "C"}
)

// SolvedTriangle has every side and angle resolved. Side a lies
// opposite angle A, and so on.
type SolvedTriangle struct {
	SideA, SideB, SideC    float64
	AngleA, AngleB, AngleC float64
}

// Values returns the triangle as spec keys.
func (t SolvedTriangle) Values() map[string]float64 {
	return map[string]float64{
		"a": t.SideA, "b": t.SideB, "c": t.SideC,
		"A": t.AngleA, "B": t.AngleB, "C": t.AngleC,
	}
}

func (t SolvedTriangle) side(i int) float64 {
	return [3]float64{t.SideA, t.SideB, t.SideC}[i]
}

func (t SolvedTriangle) angle(i int) float64 {
	return [3]float64{t.AngleA, t.AngleB, t.AngleC}[i]
}

// Place lays the triangle out with A at the origin, AB along +x and C
// above the x axis.
func (t SolvedTriangle) Place() [3]geom.Coord {
	return [3]geom.Coord{
		{X: 0, Y: 0},
		{X: t.SideC, Y: 0},
		polar(t.SideB, t.AngleA),
	}
}

// partial is the working set of known triangle values.
type partial map[string]float64

func (p partial) clone() partial {
	out := make(partial, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p partial) has(key string) bool {
	_, ok := p[key]
	return ok
}

// SolveTriangle resolves a partial {a,b,c,A,B,C} into all six values.
// The given values are tried as-is first; when a right angle is stated
// with a hypotenuse that contradicts the legs, variants with that side
// dropped or moved to a missing leg are tried in order.
func SolveTriangle(values map[string]float64) (SolvedTriangle, error) {
	p := make(partial, 6)
	for i := range 3 {
		if v, ok := values[triSides[i]]; ok && positiveFinite(v) {
			p[triSides[i]] = v
		}
		if v, ok := values[triAngles[i]]; ok && positiveFinite(v) {
			p[triAngles[i]] = v
		}
	}

	var errs []error
	for cand := range candidates(p) {
		t, err := solveDirect(cand)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}
	return SolvedTriangle{}, fmt.Errorf("%w: %w", ErrInsufficientConstraints, errors.Join(errs...))
}

// candidates yields the given spec followed by its right-angle variants.
// Variants are only built when the consumer asks for the next one.
func candidates(p partial) iter.Seq[partial] {
	return func(yield func(partial) bool) {
		if !yield(p.clone()) {
			return
		}
		for i, angle := range triAngles {
			v, ok := p[angle]
			if !ok || math.Abs(v-90) > rightTolerance {
				continue
			}
			hyp := triSides[i]
			h, ok := p[hyp]
			if !ok {
				continue
			}
			legs := [2]string{triSides[(i+1)%3], triSides[(i+2)%3]}
			l1, ok1 := p[legs[0]]
			l2, ok2 := p[legs[1]]
			if ok1 && ok2 && !legsContradict(h, l1, l2) {
				continue
			}

			if ok1 != ok2 {
				missing := legs[0]
				if ok1 {
					missing = legs[1]
				}
				q := p.clone()
				delete(q, hyp)
				q[missing] = h
				if !yield(q) {
					return
				}
			}

			q := p.clone()
			delete(q, hyp)
			if !yield(q) {
				return
			}
		}
	}
}

func legsContradict(h, l1, l2 float64) bool {
	if l1 >= h || l2 >= h {
		return true
	}
	return math.Abs(l1*l1+l2*l2-h*h) > rightTolerance*h*h
}

// solveDirect applies the derivation rules until nothing new follows.
func solveDirect(p partial) (SolvedTriangle, error) {
	given := p.clone()
	for len(p) < 6 {
		n := len(p)
		closeAngles(p)
		lawOfCosines(p)
		reverseCosines(p)
		lawOfSines(p)
		sideSideAngle(p)
		if len(p) == n {
			break
		}
	}
	if len(p) < 6 {
		return SolvedTriangle{}, fmt.Errorf("only %d of 6 triangle values resolved from %d given", len(p), len(given))
	}

	t := SolvedTriangle{
		SideA: p["a"], SideB: p["b"], SideC: p["c"],
		AngleA: p["A"], AngleB: p["B"], AngleC: p["C"],
	}
	if err := validate(t); err != nil {
		return SolvedTriangle{}, err
	}
	return closeExactly(t, given), nil
}

// closeAngles: two known angles give the third.
func closeAngles(p partial) {
	missing := -1
	sum := 0.0
	for i, k := range triAngles {
		v, ok := p[k]
		if !ok {
			if missing >= 0 {
				return
			}
			missing = i
			continue
		}
		sum += v
	}
	if missing >= 0 {
		p[triAngles[missing]] = 180 - sum
	}
}

// lawOfCosines: the side opposite a known angle from the two other sides.
func lawOfCosines(p partial) {
	for i := range 3 {
		x, angle := triSides[i], triAngles[i]
		y, z := triSides[(i+1)%3], triSides[(i+2)%3]
		if p.has(x) || !p.has(angle) || !p.has(y) || !p.has(z) {
			continue
		}
		sq := p[y]*p[y] + p[z]*p[z] - 2*p[y]*p[z]*math.Cos(rad(p[angle]))
		if sq > 0 {
			p[x] = math.Sqrt(sq)
		}
	}
}

// reverseCosines: three sides give the angles. The last missing angle is
// left to closeAngles.
func reverseCosines(p partial) {
	for _, s := range triSides {
		if !p.has(s) {
			return
		}
	}
	var missing []int
	for i, k := range triAngles {
		if !p.has(k) {
			missing = append(missing, i)
		}
	}
	if len(missing) < 2 {
		return
	}
	for _, i := range missing[:len(missing)-1] {
		x := p[triSides[i]]
		y, z := p[triSides[(i+1)%3]], p[triSides[(i+2)%3]]
		p[triAngles[i]] = deg(math.Acos(clampUnit((y*y + z*z - x*x) / (2 * y * z))))
	}
}

// lawOfSines: with every angle known, one side gives the others through
// the shared circumdiameter.
func lawOfSines(p partial) {
	ratio, ok := sineRatio(p)
	if !ok {
		return
	}
	for i := range 3 {
		if p.has(triSides[i]) {
			continue
		}
		if v, ok := p[triAngles[i]]; ok {
			if side := ratio * math.Sin(rad(v)); side > 0 {
				p[triSides[i]] = side
			}
		}
	}
}

// sideSideAngle: an angle, its opposite side and another side give that
// side's angle. Only the principal asin root is produced.
func sideSideAngle(p partial) {
	known := 0
	for _, k := range triAngles {
		if p.has(k) {
			known++
		}
	}
	if known != 1 || (p.has("a") && p.has("b") && p.has("c")) {
		return
	}
	ratio, ok := sineRatio(p)
	if !ok {
		return
	}
	for i := range 3 {
		if p.has(triAngles[i]) || !p.has(triSides[i]) {
			continue
		}
		p[triAngles[i]] = deg(math.Asin(clampUnit(p[triSides[i]] / ratio)))
		return
	}
}

// sineRatio finds x/sin(X) from any known opposite pair.
func sineRatio(p partial) (float64, bool) {
	for i := range 3 {
		x, okx := p[triSides[i]]
		a, oka := p[triAngles[i]]
		if !okx || !oka {
			continue
		}
		if s := math.Sin(rad(a)); s > epsilon {
			return x / s, true
		}
	}
	return 0, false
}

func validate(t SolvedTriangle) error {
	for i := range 3 {
		if !positiveFinite(t.side(i)) || !positiveFinite(t.angle(i)) {
			return fmt.Errorf("non-positive value for %s or %s", triSides[i], triAngles[i])
		}
	}
	if sum := t.AngleA + t.AngleB + t.AngleC; math.Abs(sum-180) > angleTolerance {
		return fmt.Errorf("angles sum to %.4f", sum)
	}
	a, b, c := t.SideA, t.SideB, t.SideC
	if a+b <= c || a+c <= b || b+c <= a {
		return fmt.Errorf("sides %.4f, %.4f, %.4f violate the triangle inequality", a, b, c)
	}

	ref := a / math.Sin(rad(t.AngleA))
	for i := 1; i < 3; i++ {
		r := t.side(i) / math.Sin(rad(t.angle(i)))
		if math.Abs(r-ref) > angleTolerance*ref {
			return fmt.Errorf("side %s does not match its angle", triSides[i])
		}
	}
	return nil
}

// closeExactly removes the sub-tolerance residue from the angle sum,
// preferring angles that were derived rather than given.
func closeExactly(t SolvedTriangle, given partial) SolvedTriangle {
	residue := t.AngleA + t.AngleB + t.AngleC - 180
	if residue == 0 {
		return t
	}
	angles := [3]*float64{&t.AngleA, &t.AngleB, &t.AngleC}
	for i := 2; i >= 0; i-- {
		if !given.has(triAngles[i]) {
			*angles[i] -= residue
			return t
		}
	}
	for _, a := range angles {
		*a -= residue / 3
	}
	return t
}

// Rotate relabels the triangle cyclically so the side named by key
// becomes side c. The shape is unchanged.
func (t SolvedTriangle) Rotate(key string) SolvedTriangle {
	switch key {
	case "a":
		return SolvedTriangle{
			SideA: t.SideB, SideB: t.SideC, SideC: t.SideA,
			AngleA: t.AngleB, AngleB: t.AngleC, AngleC: t.AngleA,
		}
	case "b":
		return SolvedTriangle{
			SideA: t.SideC, SideB: t.SideA, SideC: t.SideB,
			AngleA: t.AngleC, AngleB: t.AngleA, AngleC: t.AngleB,
		}
	}
	return t
}

// Scale multiplies every side by k.
func (t SolvedTriangle) Scale(k float64) SolvedTriangle {
	t.SideA *= k
	t.SideB *= k
	t.SideC *= k
	return t
}
