package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"figure-renderer/internal/figures/layout"

	"github.com/jbeda/geom"
)

// ============================================================
// SVG canvas
// ============================================================

// canvas collects SVG elements in absolute coordinates and tracks the
// box of everything drawn so the document can be cropped tightly.
type canvas struct {
	b       strings.Builder
	box     geom.Rect
	drawn   bool
	measure *layout.Measurer
	cfg     Config
}

func newCanvas(cfg Config, m *layout.Measurer) *canvas {
	return &canvas{cfg: cfg, measure: m}
}

func (c *canvas) extend(pts ...geom.Coord) {
	for _, p := range pts {
		if !c.drawn {
			c.box = geom.Rect{Min: p, Max: p}
			c.drawn = true
			continue
		}
		c.box.ExpandToContainCoord(p)
	}
}

func (c *canvas) write(elem string) {
	c.b.WriteString("  ")
	c.b.WriteString(elem)
	c.b.WriteString("\n")
}

func (c *canvas) open(id string) {
	c.write(fmt.Sprintf(`<g id="%s">`, id))
}

func (c *canvas) close() {
	c.write(`</g>`)
}

func (c *canvas) polygon(pts []geom.Coord, fill, stroke string, dashed bool) {
	c.extend(pts...)
	c.write(fmt.Sprintf(`<polygon points="%s" fill="%s" stroke="%s" stroke-width="%s" stroke-linejoin="round"%s />`,
		formatPoints(pts), fill, stroke, formatFloat(c.cfg.StrokeWidth), dash(dashed)))
}

func (c *canvas) line(a, b geom.Coord, stroke string, width float64, dashed bool) {
	c.extend(a, b)
	c.write(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s />`,
		formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y), stroke, formatFloat(width), dash(dashed)))
}

func (c *canvas) circle(center geom.Coord, r float64, fill, stroke string) {
	c.extend(geom.Coord{X: center.X - r, Y: center.Y - r}, geom.Coord{X: center.X + r, Y: center.Y + r})
	c.write(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s" />`,
		formatFloat(center.X), formatFloat(center.Y), formatFloat(r), fill, stroke, formatFloat(c.cfg.StrokeWidth)))
}

// path draws d; extent lists the points the path can reach.
func (c *canvas) path(d string, fill, stroke string, width float64, extent ...geom.Coord) {
	c.extend(extent...)
	c.write(fmt.Sprintf(`<path d="%s" fill="%s" stroke="%s" stroke-width="%s" />`,
		d, fill, stroke, formatFloat(width)))
}

// text draws a label centred on at.
func (c *canvas) text(at geom.Coord, s, color string, size float64) {
	w, h := c.measure.Size(s, size)
	c.extend(geom.Coord{X: at.X - w/2, Y: at.Y - h/2}, geom.Coord{X: at.X + w/2, Y: at.Y + h/2})
	c.write(fmt.Sprintf(`<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`,
		formatFloat(at.X), formatFloat(at.Y), html.EscapeString(c.cfg.FontFamily), formatFloat(size), color, html.EscapeString(s)))
}

// rect draws an axis-aligned box.
func (c *canvas) rect(min geom.Coord, w, h float64, fill, stroke string) {
	c.extend(min, geom.Coord{X: min.X + w, Y: min.Y + h})
	c.write(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s" stroke-width="%s" />`,
		formatFloat(min.X), formatFloat(min.Y), formatFloat(w), formatFloat(h), fill, stroke, formatFloat(c.cfg.StrokeWidth)))
}

// document wraps the elements in an <svg> whose viewBox is the drawn box
// grown by half a stroke plus padding.
func (c *canvas) document() (string, float64, float64) {
	box := c.box
	if !c.drawn {
		box = geom.Rect{}
	}
	pad := c.cfg.StrokeWidth/2 + c.cfg.Padding
	minX, minY := box.Min.X-pad, box.Min.Y-pad
	width, height := box.Width()+2*pad, box.Height()+2*pad

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")
	builder.WriteString(c.b.String())
	builder.WriteString(`</svg>`)
	return builder.String(), width, height
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	s := strconv.FormatFloat(val, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func formatPoint(p geom.Coord) string {
	return formatFloat(p.X) + "," + formatFloat(p.Y)
}

func formatPoints(pts []geom.Coord) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, " ")
}

func dash(dashed bool) string {
	if dashed {
		return ` stroke-dasharray="6 4"`
	}
	return ""
}

// formatValue prints a label value with the configured precision.
func formatValue(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func unitOr(v, fallback geom.Coord) geom.Coord {
	if m := v.Magnitude(); m > 1e-9 && !math.IsNaN(m) {
		return v.Times(1 / m)
	}
	return fallback
}
