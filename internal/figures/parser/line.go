package parser

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"figure-renderer/internal/figures/models"
)

// ============================================================
// Lines -> render jobs
// ============================================================

var (
	sharedSideRe    = regexp.MustCompile(`(?i)felles\s+side\s*:?\s*([A-Za-z]{1,2})\b`)
	triangleIndexRe = regexp.MustCompile(`(?i)trekant\s*([12])\s*:?`)
	arcLabelsRe     = regexp.MustCompile(`^\s*([A-Z])([A-Z])\b`)
)

// ParseLine turns one line into a render job. The boolean is false when
// nothing was recognised; the job then carries the untouched line.
func (p *Parser) ParseLine(line string) (models.RenderJob, bool) {
	job := models.RenderJob{Source: line, Spec: models.NewShapeSpec(), Normalized: line}

	core, decos := ExtractDecorations(line)
	if !p.parseCore(&job, core) {
		// "tegn et kvadrat med side 4": the shape word was taken for a
		// decoration, so retry with the whole line as core.
		if len(decos) > 0 || !p.parseCore(&job, clean(line)) {
			return job, false
		}
		decos = nil
	}
	job.Decorations = decos
	job.Normalized = normalizedText(job)
	return job, true
}

func (p *Parser) parseCore(job *models.RenderJob, core string) bool {
	if core == "" {
		return false
	}
	lower := strings.ToLower(core)

	k, found := matchPrefix(lower)
	rest := core
	if found {
		rest = core[len(k.word):]
	} else {
		k, found = findKeyword(lower)
	}

	switch {
	case found && k.shape == models.ShapeDoubleTriangle:
		job.Type = models.ShapeDoubleTriangle
		job.Double = parseDouble(core)
	case found:
		job.Type = k.shape
		job.Spec = p.complete(k, rest, lower)
		if k.shape == models.ShapeArc {
			job.Labels = "AB"
			if m := arcLabelsRe.FindStringSubmatch(rest); m != nil && m[1] != m[2] {
				job.Labels = m[1] + m[2]
			}
		}
	default:
		spec := ParseSpec(core)
		if spec.Empty() {
			return false
		}
		job.Spec = spec
		job.Type = inferType(spec)
	}
	return true
}

// inferType routes a bare key=value spec: a fourth side or angle means a
// quadrilateral, otherwise a triangle.
func inferType(spec models.ShapeSpec) models.ShapeType {
	switch {
	case spec.Has("n"):
		return models.ShapePolygon
	case spec.Has("d"), spec.Has("D"):
		return models.ShapeQuad
	case spec.Has("r") && count(spec, triangleKeys...) == 0:
		return models.ShapeCircle
	}
	return models.ShapeTriangle
}

// parseDouble reads "dobbel trekant felles side: AB | trekant 1: ... |
// trekant 2: ...". Unlabelled segments fill the triangles in order.
func parseDouble(text string) *models.DoubleTriangleSpec {
	d := &models.DoubleTriangleSpec{First: models.NewShapeSpec(), Second: models.NewShapeSpec()}
	if m := sharedSideRe.FindStringSubmatch(text); m != nil {
		d.SharedSide = m[1]
	}

	var unlabelled []models.ShapeSpec
	for _, seg := range strings.Split(text, "|") {
		spec := ParseSpec(seg)
		if spec.Empty() {
			continue
		}
		switch m := triangleIndexRe.FindStringSubmatch(seg); {
		case m != nil && m[1] == "1":
			d.First = spec
		case m != nil && m[1] == "2":
			d.Second = spec
		default:
			unlabelled = append(unlabelled, spec)
		}
	}
	for _, spec := range unlabelled {
		switch {
		case d.First.Empty():
			d.First = spec
		case d.Second.Empty():
			d.Second = spec
		}
	}
	return d
}

// normalizedText re-serializes a resolved job so that parsing it again
// yields the same spec.
func normalizedText(job models.RenderJob) string {
	var b strings.Builder
	spec := job.Spec
	switch job.Type {
	case models.ShapeDoubleTriangle:
		b.WriteString("dobbel trekant")
		if job.Double.SharedSide != "" {
			b.WriteString(" felles side: " + job.Double.SharedSide)
		}
		b.WriteString(" | trekant 1: " + job.Double.First.String())
		b.WriteString(" | trekant 2: " + job.Double.Second.String())
	case models.ShapePolygon:
		fmt.Fprintf(&b, "mangekant sider: %d", int(math.Round(spec.Values["n"])))
		if a, ok := spec.Get("a"); ok {
			b.WriteString(" side: a=" + models.FormatNumber(a))
		} else if r, ok := spec.Get("r"); ok {
			b.WriteString(" radius: r=" + models.FormatNumber(r))
		}
	case models.ShapeCircle:
		b.WriteString("sirkel " + spec.String())
	case models.ShapeArc:
		b.WriteString("halvsirkel " + job.Labels + " " + spec.String())
	default:
		if spec.Hint != nil {
			b.WriteString(spec.Hint.Keyword + " ")
		}
		b.WriteString(spec.String())
	}
	for _, d := range job.Decorations {
		b.WriteString("; " + d.Text)
	}
	return b.String()
}
