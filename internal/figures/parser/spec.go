package parser

import (
	"regexp"
	"strconv"
	"strings"

	"figure-renderer/internal/figures/models"

	"golang.org/x/text/unicode/norm"
)

// ============================================================
// Explicit key=value specs
// ============================================================

var (
	// a=5, B = 90°, d=2,5cm. A comma directly followed by a digit is a
	// decimal separator.
	keyValueRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])([a-dA-DnrR])\s*=\s*(\d+(?:[.,]\d+)?)`)

	sidesLabelRe    = regexp.MustCompile(`(?i)\bsider\s*:?\s*(\d+)`)
	radiusLabelRe   = regexp.MustCompile(`(?i)\bradius\s*:?\s*(\d+(?:[.,]\d+)?)`)
	diameterLabelRe = regexp.MustCompile(`(?i)\bdiameter\s*:?\s*(\d+(?:[.,]\d+)?)`)
	numberRe        = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ParseSpec reads the explicit key=value pairs of a line. Keys outside
// the recognised set are ignored, later duplicates win.
func ParseSpec(line string) models.ShapeSpec {
	spec := models.NewShapeSpec()
	for _, m := range keyValueRe.FindAllStringSubmatch(clean(line), -1) {
		key := m[1]
		if key == "R" {
			key = "r"
		}
		if v, ok := parseNumber(m[2]); ok && v > 0 {
			spec.Set(key, v)
		}
	}
	return spec
}

// looseNumbers returns the numbers that are not part of a key=value pair
// or a labelled value, in order of appearance.
func looseNumbers(line string) []float64 {
	stripped := keyValueRe.ReplaceAllString(line, " ")
	for _, re := range []*regexp.Regexp{sidesLabelRe, radiusLabelRe, diameterLabelRe} {
		stripped = re.ReplaceAllString(stripped, " ")
	}
	var out []float64
	for _, s := range numberRe.FindAllString(stripped, -1) {
		if v, ok := parseNumber(s); ok && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func labelled(re *regexp.Regexp, line string) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, ok := parseNumber(m[1])
	return v, ok && v > 0
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// clean composes the line to NFC so "ø" typed as o+stroke matches the
// vocabulary, and folds the usual typographic variants.
func clean(line string) string {
	s := norm.NFC.String(line)
	s = strings.NewReplacer(
		" ", " ",
		"−", "-",
		"–", "-",
		"º", "°",
		"“", `"`,
		"”", `"`,
	).Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
