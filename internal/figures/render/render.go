// Package render sequences parsing, solving, layout and drawing for a
// batch of figure lines and isolates failures per figure.
package render

import (
	"context"
	"fmt"
	"math"
	"strings"

	"figure-renderer/internal/figures/interpret"
	"figure-renderer/internal/figures/layout"
	"figure-renderer/internal/figures/models"
	"figure-renderer/internal/figures/parser"

	"github.com/jbeda/geom"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct {
	parser      *parser.Parser
	interpreter interpret.Interpreter
	measure     *layout.Measurer
}

type Option func(*Renderer)

func WithParser(p *parser.Parser) Option {
	return func(r *Renderer) { r.parser = p }
}

// WithInterpreter enables the free-text fallback for lines the local
// parser does not recognise.
func WithInterpreter(i interpret.Interpreter) Option {
	return func(r *Renderer) { r.interpreter = i }
}

func WithMeasurer(m *layout.Measurer) Option {
	return func(r *Renderer) { r.measure = m }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.parser == nil {
		r.parser = parser.New()
	}
	if r.measure == nil {
		if m, err := layout.NewMeasurer(); err == nil {
			r.measure = m
		} else {
			Logger().Warn("render: font metrics unavailable, estimating label sizes", "error", err)
		}
	}
	return r
}

// Result is one render pass.
type Result struct {
	SVG        string                 `json:"svg"`
	Width      float64                `json:"width"`
	Height     float64                `json:"height"`
	Jobs       []models.RenderJob     `json:"jobs"`
	Summaries  []models.RenderSummary `json:"summaries"`
	Normalized []string               `json:"normalized"`
}

// Failed counts figures that rendered an error panel.
func (res *Result) Failed() int {
	n := 0
	for _, s := range res.Summaries {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// Render draws every non-blank line as one panel. Lines nobody can read
// are passed through in Normalized and get no panel. A figure that fails
// shows its error in its own panel; the others are unaffected. The error
// return is reserved for a context that is already done.
func (r *Renderer) Render(ctx context.Context, cfg Config, lines []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	res := &Result{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		job, ok := r.parseLine(ctx, line)
		res.Normalized = append(res.Normalized, job.Normalized)
		if ok {
			res.Jobs = append(res.Jobs, job)
		}
	}

	cols := min(cfg.MaxColumns, max(len(res.Jobs), 1))
	c := newCanvas(cfg, r.measure)
	for i, job := range res.Jobs {
		origin := geom.Coord{
			X: float64(i%cols) * (cfg.PanelWidth + cfg.Gap),
			Y: float64(i/cols) * (cfg.PanelHeight + cfg.Gap),
		}
		res.Summaries = append(res.Summaries, r.drawPanel(c, cfg, i, job, origin))
	}

	res.SVG, res.Width, res.Height = c.document()
	return res, nil
}

// parseLine parses locally and asks the interpreter at most once when
// the line is not recognised. Interpreter failures keep the local result.
func (r *Renderer) parseLine(ctx context.Context, line string) (models.RenderJob, bool) {
	job, ok := r.parser.ParseLine(line)
	if ok || r.interpreter == nil {
		return job, ok
	}

	text, err := r.interpreter.Interpret(ctx, line)
	if err != nil {
		Logger().Warn("render: interpreter failed", "line", line, "error", err)
		return job, false
	}
	Logger().Debug("render: interpreter reply", "line", line, "reply", text)

	interpreted, ok := r.parser.ParseLine(text)
	if !ok {
		return job, false
	}
	interpreted.Source = line
	return interpreted, true
}

// drawPanel draws one figure. Panics and solver errors stay inside the
// panel and come back as the summary's error.
func (r *Renderer) drawPanel(c *canvas, cfg Config, index int, job models.RenderJob, origin geom.Coord) (summary models.RenderSummary) {
	summary = models.RenderSummary{Type: job.Type}

	// drawing into a scratch canvas keeps a half-drawn figure out of the
	// document when it fails
	scratch := newCanvas(cfg, r.measure)
	defer func() {
		if rec := recover(); rec != nil {
			summary = r.failPanel(c, cfg, index, job, origin, fmt.Errorf("internal error: %v", rec))
		}
	}()

	f, err := buildFigure(job)
	if err != nil {
		return r.failPanel(c, cfg, index, job, origin, err)
	}
	decos := resolveDecorations(f, job.Decorations)

	extent := f.extent()
	for _, d := range decos {
		extent = append(extent, d.extent()...)
	}
	t, err := layout.Fit(extent, cfg.PanelWidth, cfg.PanelHeight, cfg.Margin)
	if err != nil {
		return r.failPanel(c, cfg, index, job, origin, err)
	}
	screen := func(p geom.Coord) geom.Coord { return t.Map(p).Plus(origin) }

	scratch.open(fmt.Sprintf("figure-%d", index+1))
	drawShape(scratch, cfg, f, screen, t.Scale)
	for _, d := range decos {
		drawDecoration(scratch, cfg, d, screen)
		summary.Decorations = append(summary.Decorations, d.source.Text)
	}
	summary.AngleMarks = drawAngles(scratch, cfg, f, screen)
	drawLabels(scratch, cfg, f, screen)
	scratch.close()

	c.b.WriteString(scratch.b.String())
	if scratch.drawn {
		c.extend(scratch.box.Min, scratch.box.Max)
	}
	summary.Values = f.summaryValues()
	return summary
}

func (r *Renderer) failPanel(c *canvas, cfg Config, index int, job models.RenderJob, origin geom.Coord, err error) models.RenderSummary {
	Logger().Warn("render: figure failed", "index", index, "line", job.Source, "error", err)

	c.open(fmt.Sprintf("figure-%d", index+1))
	inset := cfg.Margin / 2
	c.rect(origin.Plus(geom.Coord{X: inset, Y: inset}), cfg.PanelWidth-2*inset, cfg.PanelHeight-2*inset, cfg.ErrorFill, cfg.ErrorColor)
	center := origin.Plus(geom.Coord{X: cfg.PanelWidth / 2, Y: cfg.PanelHeight / 2})
	c.text(center.Minus(geom.Coord{Y: cfg.FontSize}), job.Source, cfg.ErrorColor, cfg.FontSize)
	c.text(center.Plus(geom.Coord{Y: cfg.FontSize}), err.Error(), cfg.ErrorColor, cfg.FontSize*0.85)
	c.close()

	return models.RenderSummary{Type: job.Type, Error: err.Error()}
}

// ============================================================
// Figure drawing
// ============================================================

func drawShape(c *canvas, cfg Config, f *figure, screen func(geom.Coord) geom.Coord, scale float64) {
	if f.circle != nil {
		c.circle(screen(f.circle.Center), f.circle.Radius*scale, cfg.Fill, cfg.Stroke)
	}
	if f.arc != nil {
		from, to := screen(f.arc.From), screen(f.arc.To)
		r := f.arc.Radius() * scale
		d := fmt.Sprintf("M %s A %s %s 0 0 1 %s Z", formatPoint(from), formatFloat(r), formatFloat(r), formatPoint(to))
		var ext []geom.Coord
		for _, p := range f.arc.Extremes() {
			ext = append(ext, screen(p))
		}
		c.path(d, cfg.Fill, cfg.Stroke, cfg.StrokeWidth, ext...)
	}
	for _, face := range f.faces {
		pts := make([]geom.Coord, len(face))
		for i, v := range face {
			pts[i] = screen(f.points[v])
		}
		c.polygon(pts, cfg.Fill, cfg.Stroke, false)
	}
	for _, s := range f.spokes {
		c.line(screen(f.points[s[0]]), screen(f.points[s[1]]), cfg.Stroke, cfg.StrokeWidth, false)
	}
	if f.circle != nil {
		c.circle(screen(f.circle.Center), cfg.StrokeWidth*1.5, cfg.Stroke, cfg.Stroke)
	}
}

func drawDecoration(c *canvas, cfg Config, d decoration, screen func(geom.Coord) geom.Coord) {
	width := cfg.StrokeWidth * 0.75
	for _, l := range d.lines {
		c.line(screen(l[0]), screen(l[1]), cfg.Accent, width, false)
	}
	for _, l := range d.dashed {
		c.line(screen(l[0]), screen(l[1]), cfg.Accent, width, true)
	}
	if d.right != nil {
		drawRightMark(c, cfg, screen(d.right.at), flipY(d.right.u), flipY(d.right.v), cfg.Accent)
	}
	if d.arc != nil {
		from, to := screen(d.arc.From), screen(d.arc.To)
		r := from.DistanceFrom(to) / 2
		path := fmt.Sprintf("M %s A %s %s 0 0 1 %s", formatPoint(from), formatFloat(r), formatFloat(r), formatPoint(to))
		var ext []geom.Coord
		for _, p := range d.arc.Extremes() {
			ext = append(ext, screen(p))
		}
		c.path(path, "none", cfg.Accent, width, ext...)
	}
	if len(d.square) > 0 {
		pts := make([]geom.Coord, len(d.square))
		for i, p := range d.square {
			pts[i] = screen(p)
		}
		c.polygon(pts, "none", cfg.Accent, true)
	}
	if d.label != "" {
		c.text(screen(d.labelAt), d.label, cfg.Accent, cfg.FontSize*0.85)
	}
}

// drawAngles marks every known angle: squares for right angles, arcs
// with the value otherwise.
func drawAngles(c *canvas, cfg Config, f *figure, screen func(geom.Coord) geom.Coord) []models.AngleMark {
	var marks []models.AngleMark
	for _, a := range f.angles {
		v := screen(f.points[a.vertex])
		p, n := screen(f.points[a.prev]), screen(f.points[a.next])
		u1, u2 := unitOr(p.Minus(v), geom.Coord{X: 1}), unitOr(n.Minus(v), geom.Coord{Y: 1})

		// keep the mark inside short sides
		r := math.Min(cfg.AngleMarkRadius, 0.3*math.Min(p.DistanceFrom(v), n.DistanceFrom(v)))
		right := math.Abs(a.degrees-90) < 0.05

		if right {
			drawRightMark(c, cfg, v, u1, u2, cfg.Stroke)
		} else {
			start, end := v.Plus(u1.Times(r)), v.Plus(u2.Times(r))
			sweep := 0
			if u1.X*u2.Y-u1.Y*u2.X > 0 {
				sweep = 1
			}
			d := fmt.Sprintf("M %s A %s %s 0 0 %d %s", formatPoint(start), formatFloat(r), formatFloat(r), sweep, formatPoint(end))
			c.path(d, "none", cfg.Stroke, cfg.StrokeWidth*0.6, start, end)

			bisector := unitOr(u1.Plus(u2), geom.Coord{Y: -1})
			c.text(v.Plus(bisector.Times(r+cfg.FontSize)), formatValue(a.degrees, cfg.Precision)+"°", cfg.TextColor, cfg.FontSize*0.8)
		}
		marks = append(marks, models.AngleMark{
			Vertex:  f.labels[a.vertex],
			Degrees: a.degrees,
			Right:   right,
		})
	}
	return marks
}

func drawRightMark(c *canvas, cfg Config, at, u, v geom.Coord, stroke string) {
	s := cfg.AngleMarkRadius * 0.6
	p1 := at.Plus(u.Times(s))
	p2 := p1.Plus(v.Times(s))
	p3 := at.Plus(v.Times(s))
	d := fmt.Sprintf("M %s L %s L %s", formatPoint(p1), formatPoint(p2), formatPoint(p3))
	c.path(d, "none", stroke, cfg.StrokeWidth*0.6, p1, p2, p3)
}

// drawLabels puts vertex names outside the figure and side values
// outside their side.
func drawLabels(c *canvas, cfg Config, f *figure, screen func(geom.Coord) geom.Coord) {
	center := screen(f.centroid())
	for i, l := range f.labels {
		if l == "" {
			continue
		}
		p := screen(f.points[i])
		out := unitOr(p.Minus(center), geom.Coord{Y: 1})
		c.text(p.Plus(out.Times(cfg.FontSize)), l, cfg.TextColor, cfg.FontSize)
	}
	for _, s := range f.sides {
		a, b := screen(f.points[s.from]), screen(f.points[s.to])
		mid := a.Plus(b).Times(0.5)
		ab := b.Minus(a)
		out := unitOr(geom.Coord{X: -ab.Y, Y: ab.X}, geom.Coord{Y: 1})
		if away := mid.Minus(center); away.X*out.X+away.Y*out.Y < 0 {
			out = out.Times(-1)
		}
		text := s.key + "=" + formatValue(s.value, cfg.Precision)
		c.text(mid.Plus(out.Times(cfg.FontSize*1.1)), text, cfg.TextColor, cfg.FontSize*0.85)
	}
}

// flipY turns a construction-space direction into a screen direction.
func flipY(v geom.Coord) geom.Coord {
	return geom.Coord{X: v.X, Y: -v.Y}
}
