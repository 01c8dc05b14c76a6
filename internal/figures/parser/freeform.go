package parser

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"figure-renderer/internal/figures/models"
)

// ============================================================
// Parser & free-text completion
// ============================================================

// Parser turns text lines into render jobs. Missing values in free text
// are drawn from its random source, so a seeded Parser is reproducible.
type Parser struct {
	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Parser)

// WithRand installs the random source used for free-text defaults.
func WithRand(r *rand.Rand) Option {
	return func(p *Parser) {
		if r != nil {
			p.rng = r
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// ParseSpecFreeform infers a spec from shape keywords and loose numbers,
// drawing what is missing from a fresh unseeded source.
func ParseSpecFreeform(line string) models.ShapeSpec {
	return New().ParseSpecFreeform(line)
}

func (p *Parser) ParseSpecFreeform(line string) models.ShapeSpec {
	text := clean(line)
	lower := strings.ToLower(text)
	if k, ok := matchPrefix(lower); ok {
		return p.complete(k, text[len(k.word):], lower)
	}
	if k, ok := findKeyword(lower); ok {
		return p.complete(k, text, lower)
	}
	return ParseSpec(text)
}

// draw returns a value in [lo, hi] rounded to one decimal.
func (p *Parser) draw(lo, hi float64) float64 {
	p.mu.Lock()
	f := p.rng.Float64()
	p.mu.Unlock()
	return math.Round((lo+f*(hi-lo))*10) / 10
}

func (p *Parser) drawInt(lo, hi int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rng.IntN(hi-lo+1)
}

// queue hands out loose numbers in order.
type queue []float64

func (q *queue) next() (float64, bool) {
	if len(*q) == 0 {
		return 0, false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, true
}

// first returns the first explicit value among keys.
func first(spec models.ShapeSpec, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := spec.Get(k); ok {
			return v, true
		}
	}
	return 0, false
}

// pick resolves a value from explicit keys, then the next loose number,
// then a random draw.
func (p *Parser) pick(spec models.ShapeSpec, nums *queue, lo, hi float64, keys ...string) float64 {
	if v, ok := first(spec, keys...); ok {
		return v
	}
	if v, ok := nums.next(); ok {
		return v
	}
	return p.draw(lo, hi)
}

func count(spec models.ShapeSpec, keys ...string) int {
	n := 0
	for _, k := range keys {
		if spec.Has(k) {
			n++
		}
	}
	return n
}

// complete fills a keyword shape. rest is the text that carries the
// values, lower the whole lowercased line used for modifiers.
func (p *Parser) complete(k keyword, rest, lower string) models.ShapeSpec {
	explicit := ParseSpec(rest)
	nums := queue(looseNumbers(rest))

	var spec models.ShapeSpec
	switch k.shape {
	case models.ShapeTriangle:
		spec = p.completeTriangle(lower, explicit, &nums)
	case models.ShapeQuad:
		spec = p.completeQuad(k.word, explicit, &nums)
	case models.ShapePolygon:
		spec = p.completePolygon(k, rest, explicit, &nums)
	case models.ShapeCircle, models.ShapeArc:
		spec = p.completeCircle(rest, explicit, &nums)
	default:
		return explicit
	}
	if t := hintType(k.shape); t != "" {
		spec.Hint = &models.ShapeHint{Type: t, Keyword: k.word}
	}
	return spec
}

var triangleKeys = []string{"a", "b", "c", "A", "B", "C"}

func (p *Parser) completeTriangle(lower string, spec models.ShapeSpec, nums *queue) models.ShapeSpec {
	if count(spec, triangleKeys...) >= 3 {
		return spec
	}
	switch {
	case strings.Contains(lower, "rettvinklet"):
		if count(spec, "A", "B", "C") == 0 {
			spec.Set("C", 90)
		}
		if c, ok := spec.Get("c"); ok {
			for _, key := range []string{"a", "b"} {
				if count(spec, triangleKeys...) < 3 && !spec.Has(key) {
					spec.Set(key, p.pick(spec, nums, 0.3*c, 0.8*c))
				}
			}
			return spec
		}
		for _, key := range []string{"a", "b", "c"} {
			if count(spec, triangleKeys...) < 3 && !spec.Has(key) {
				spec.Set(key, p.pick(spec, nums, 3, 9))
			}
		}
	case strings.Contains(lower, "likesidet"):
		s := p.pick(spec, nums, 3, 8, "a", "b", "c")
		spec = models.NewShapeSpec()
		spec.Set("a", s)
		spec.Set("b", s)
		spec.Set("c", s)
	case strings.Contains(lower, "likebeint"), strings.Contains(lower, "likebent"):
		leg := p.pick(spec, nums, 4, 8, "a", "b")
		hi := math.Min(6, 2*leg-0.5)
		base := p.pick(spec, nums, math.Min(3, hi/2), hi, "c")
		spec = models.NewShapeSpec()
		spec.Set("a", leg)
		spec.Set("b", leg)
		spec.Set("c", base)
	default:
		for _, key := range []string{"a", "b"} {
			if count(spec, triangleKeys...) < 3 && !spec.Has(key) {
				spec.Set(key, p.pick(spec, nums, 3, 9))
			}
		}
		if count(spec, triangleKeys...) < 3 && !spec.Has("c") {
			a, b := spec.Values["a"], spec.Values["b"]
			if v, ok := nums.next(); ok {
				spec.Set("c", v)
			} else {
				spec.Set("c", p.draw(math.Abs(a-b)+1, math.Min(9, a+b-1)))
			}
		}
	}
	return spec
}

func (p *Parser) completeQuad(word string, spec models.ShapeSpec, nums *queue) models.ShapeSpec {
	out := models.NewShapeSpec()
	switch word {
	case "kvadrat":
		s := p.pick(spec, nums, 3, 8, "a", "b", "c", "d")
		setSides(out, s, s)
		out.Set("B", 90)
	case "rombe":
		s := p.pick(spec, nums, 3, 8, "a", "b", "c", "d")
		setSides(out, s, s)
		out.Set("B", p.pickAngle(spec, nums))
	case "parallellogram":
		w := p.pick(spec, nums, 3, 9, "a", "c")
		h := p.pick(spec, nums, 3, 9, "b", "d")
		setSides(out, w, h)
		out.Set("B", p.pickAngle(spec, nums))
	case "firkant":
		if count(spec, "a", "b", "c") == 3 && count(spec, "A", "B", "C", "D") > 0 {
			return spec
		}
		fallthrough
	default: // rektangel
		w := p.pick(spec, nums, 3, 9, "a", "c")
		h := p.pick(spec, nums, 3, 9, "b", "d")
		setSides(out, w, h)
		out.Set("B", 90)
	}
	return out
}

func setSides(spec models.ShapeSpec, w, h float64) {
	spec.Set("a", w)
	spec.Set("b", h)
	spec.Set("c", w)
	spec.Set("d", h)
}

// pickAngle resolves the B angle of a parallelogram: B itself, else the
// supplement of A, else a loose number, else 60.
func (p *Parser) pickAngle(spec models.ShapeSpec, nums *queue) float64 {
	if b, ok := spec.Get("B"); ok && b < 180 {
		return b
	}
	if a, ok := spec.Get("A"); ok && a < 180 {
		return 180 - a
	}
	if v, ok := nums.next(); ok && v < 180 {
		return v
	}
	return 60
}

func (p *Parser) completePolygon(k keyword, rest string, spec models.ShapeSpec, nums *queue) models.ShapeSpec {
	out := models.NewShapeSpec()

	n := k.sides
	if v, ok := spec.Get("n"); ok {
		n = int(math.Round(v))
	} else if v, ok := labelled(sidesLabelRe, rest); ok {
		n = int(math.Round(v))
	} else if n == 0 {
		if v, ok := nums.next(); ok {
			n = int(math.Round(v))
		} else {
			n = p.drawInt(5, 8)
		}
	}
	out.Set("n", float64(n))

	switch {
	case spec.Has("a"):
		out.Set("a", spec.Values["a"])
	case spec.Has("r"):
		out.Set("r", spec.Values["r"])
	default:
		if r, ok := labelled(radiusLabelRe, rest); ok {
			out.Set("r", r)
		} else {
			out.Set("a", p.pick(spec, nums, 3, 6))
		}
	}
	return out
}

func (p *Parser) completeCircle(rest string, spec models.ShapeSpec, nums *queue) models.ShapeSpec {
	out := models.NewShapeSpec()
	switch r, ok := spec.Get("r"); {
	case ok:
		out.Set("r", r)
	default:
		if v, ok := labelled(radiusLabelRe, rest); ok {
			out.Set("r", v)
		} else if v, ok := labelled(diameterLabelRe, rest); ok {
			out.Set("r", v/2)
		} else if d, ok := spec.Get("d"); ok {
			out.Set("r", d/2)
		} else {
			out.Set("r", p.pick(spec, nums, 2, 6))
		}
	}
	return out
}
