package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"figure-renderer/internal/figures/models"
)

// ============================================================
// Decoration extraction
// ============================================================

var (
	decorationKeywordRe = regexp.MustCompile(`(?i)diagonal(?:er)?|høyde(?:r)?|halvsirkel|kvadrat`)
	heightShorthandRe   = regexp.MustCompile(`\b([A-Z])\s+(?:til|på|mot)\s+([A-Z]{2}|[a-d])\b`)

	pointPairRe  = regexp.MustCompile(`\b([A-Z])\s*-?\s*([A-Z])\b`)
	heightItemRe = regexp.MustCompile(`^(?i:fra\s+)?([A-Z])\s*(?:(?:ned på|/|til|på|mot)\s*([A-Z]{1,2}|[a-d]))?$`)
	radiusRe     = regexp.MustCompile(`(?i)(?:\br\s*=|\bradius\s*:?)\s*(\d+(?:[.,]\d+)?)`)
	diameterRe   = regexp.MustCompile(`(?i)(?:\bd\s*=|\bdiameter\s*:?)\s*(\d+(?:[.,]\d+)?)`)
)

type boundaryKind int

const (
	cutSemicolon boundaryKind = iota
	cutKeyword
	cutHeightKeyword
	cutShorthand
)

type boundary struct {
	pos  int
	kind boundaryKind
}

// ExtractDecorations splits a line into its core spec text and the
// decorations that follow it. Boundaries sit before each decoration
// keyword and at each ';', never at the start of the line and never
// inside quotes or parentheses. Segments that do not parse are dropped.
func ExtractDecorations(line string) (string, []models.Decoration) {
	text := clean(line)
	cuts := boundaries(text)
	if len(cuts) == 0 {
		return text, nil
	}

	core := strings.TrimSpace(strings.TrimRight(text[:cuts[0].pos], ",; "))
	var decos []models.Decoration
	for i, c := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1].pos
		}
		decos = append(decos, parseDecoration(text[c.pos:end])...)
	}
	return core, decos
}

func boundaries(text string) []boundary {
	protected := protectedMask(text)
	var cuts []boundary

	for i := 0; i < len(text); i++ {
		if text[i] == ';' && !protected[i] {
			cuts = append(cuts, boundary{pos: i, kind: cutSemicolon})
		}
	}
	for _, m := range decorationKeywordRe.FindAllStringIndex(text, -1) {
		if m[0] == 0 || protected[m[0]] || !wordBounded(text, m[0], m[1]) {
			continue
		}
		kind := cutKeyword
		if strings.HasPrefix(strings.ToLower(text[m[0]:m[1]]), "høyde") {
			kind = cutHeightKeyword
		}
		cuts = append(cuts, boundary{pos: m[0], kind: kind})
	}
	for _, m := range heightShorthandRe.FindAllStringIndex(text, -1) {
		if m[0] == 0 || protected[m[0]] {
			continue
		}
		cuts = append(cuts, boundary{pos: m[0], kind: cutShorthand})
	}
	sort.SliceStable(cuts, func(i, j int) bool { return cuts[i].pos < cuts[j].pos })

	// "høyde fra C til AB" stays one segment
	out := cuts[:0]
	last := cutSemicolon
	for _, c := range cuts {
		if c.kind == cutShorthand && last == cutHeightKeyword {
			continue
		}
		out = append(out, c)
		last = c.kind
	}
	return out
}

func wordBounded(text string, start, end int) bool {
	if r, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 && unicode.IsLetter(r) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(text[end:]); end < len(text) && unicode.IsLetter(r) {
		return false
	}
	return true
}

// protectedMask marks bytes inside "..." or (...).
func protectedMask(text string) []bool {
	mask := make([]bool, len(text))
	quoted, depth := false, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			quoted = !quoted
		case '(':
			if !quoted {
				depth++
			}
		case ')':
			if !quoted && depth > 0 {
				depth--
			}
		}
		mask[i] = quoted || depth > 0
	}
	return mask
}

func parseDecoration(seg string) []models.Decoration {
	seg = strings.TrimSpace(strings.Trim(seg, ";, "))
	if seg == "" {
		return nil
	}
	lower := strings.ToLower(seg)
	loc := decorationKeywordRe.FindStringIndex(seg)
	if loc == nil || loc[0] != 0 {
		return parseHeightShorthand(seg)
	}
	rest := strings.TrimSpace(strings.TrimLeft(seg[loc[1]:], ": "))
	switch {
	case strings.HasPrefix(lower, "diagonal"):
		return parseDiagonals(rest)
	case strings.HasPrefix(lower, "høyde"):
		return parseHeights(rest)
	case strings.HasPrefix(lower, "halvsirkel"):
		return parseSemicircle(rest)
	case strings.HasPrefix(lower, "kvadrat"):
		return parseSquare(rest)
	}
	return nil
}

func parseDiagonals(rest string) []models.Decoration {
	var out []models.Decoration
	for _, m := range pointPairRe.FindAllStringSubmatch(rest, -1) {
		if m[1] == m[2] {
			continue
		}
		out = append(out, models.Decoration{
			Kind: models.DecorationDiagonal,
			From: m[1],
			To:   m[2],
			Text: "diagonal: " + m[1] + m[2],
		})
	}
	return out
}

func parseHeights(rest string) []models.Decoration {
	var out []models.Decoration
	for _, item := range strings.Split(rest, ",") {
		m := heightItemRe.FindStringSubmatch(strings.TrimSpace(item))
		if m == nil {
			continue
		}
		out = append(out, height(m[1], m[2]))
	}
	return out
}

func parseHeightShorthand(seg string) []models.Decoration {
	m := heightShorthandRe.FindStringSubmatch(seg)
	if m == nil || !strings.HasPrefix(seg, m[0]) {
		return nil
	}
	return []models.Decoration{height(m[1], m[2])}
}

// height builds a height decoration. A single uppercase base names the
// vertex the base side starts at, two letters or a side key name the
// side itself.
func height(from, base string) models.Decoration {
	d := models.Decoration{Kind: models.DecorationHeight, From: from, Text: "høyde: " + from}
	if base == "" {
		return d
	}
	d.ExplicitBase = true
	d.Text += "/" + base
	if len(base) == 1 && base[0] >= 'A' && base[0] <= 'Z' {
		d.Base = base
	} else {
		d.BaseSide = base
	}
	return d
}

func parseSemicircle(rest string) []models.Decoration {
	m := pointPairRe.FindStringSubmatch(rest)
	if m == nil || m[1] == m[2] {
		return nil
	}
	d := models.Decoration{
		Kind: models.DecorationSemicircle,
		From: m[1],
		To:   m[2],
		Text: "halvsirkel: " + m[1] + m[2],
	}
	if r := radiusRe.FindStringSubmatch(rest); r != nil {
		if v, ok := parseNumber(r[1]); ok && v > 0 {
			d.Radius = v
			d.Text += " r=" + models.FormatNumber(v)
		}
	} else if dm := diameterRe.FindStringSubmatch(rest); dm != nil {
		if v, ok := parseNumber(dm[1]); ok && v > 0 {
			d.Diameter = v
			d.Text += " d=" + models.FormatNumber(v)
		}
	}
	return []models.Decoration{d}
}

func parseSquare(rest string) []models.Decoration {
	m := pointPairRe.FindStringSubmatch(rest)
	if m == nil || m[1] == m[2] {
		return nil
	}
	return []models.Decoration{{
		Kind: models.DecorationSquare,
		From: m[1],
		To:   m[2],
		Text: "kvadrat: " + m[1] + m[2],
	}}
}
