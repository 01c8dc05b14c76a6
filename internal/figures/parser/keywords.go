package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"figure-renderer/internal/figures/models"
)

// ============================================================
// Shape vocabulary
// ============================================================

type keyword struct {
	word  string
	shape models.ShapeType
	sides int // named regular polygons
}

// Longer words first: "halvsirkel" must win over "sirkel" and
// "dobbel trekant" over "trekant".
var shapeKeywords = []keyword{
	{word: "dobbel trekant", shape: models.ShapeDoubleTriangle},
	{word: "dobbeltrekant", shape: models.ShapeDoubleTriangle},
	{word: "halvsirkel", shape: models.ShapeArc},
	{word: "sirkel", shape: models.ShapeCircle},
	{word: "parallellogram", shape: models.ShapeQuad},
	{word: "rektangel", shape: models.ShapeQuad},
	{word: "kvadrat", shape: models.ShapeQuad},
	{word: "rombe", shape: models.ShapeQuad},
	{word: "firkant", shape: models.ShapeQuad},
	{word: "trekant", shape: models.ShapeTriangle},
	{word: "mangekant", shape: models.ShapePolygon},
	{word: "femkant", shape: models.ShapePolygon, sides: 5},
	{word: "sekskant", shape: models.ShapePolygon, sides: 6},
	{word: "sjukant", shape: models.ShapePolygon, sides: 7},
	{word: "syvkant", shape: models.ShapePolygon, sides: 7},
	{word: "åttekant", shape: models.ShapePolygon, sides: 8},
	{word: "nikant", shape: models.ShapePolygon, sides: 9},
	{word: "tikant", shape: models.ShapePolygon, sides: 10},
}

// matchPrefix finds the keyword the line starts with. The keyword must
// end at a word boundary so "kvadratisk" is not a square.
func matchPrefix(lower string) (keyword, bool) {
	for _, k := range shapeKeywords {
		if !strings.HasPrefix(lower, k.word) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(lower[len(k.word):]); unicode.IsLetter(r) {
			continue
		}
		return k, true
	}
	return keyword{}, false
}

// findKeyword finds a keyword anywhere in free text. Inflected forms
// ("trekanten", "kvadratet") are accepted.
func findKeyword(lower string) (keyword, bool) {
	for _, k := range shapeKeywords {
		from := 0
		for {
			i := strings.Index(lower[from:], k.word)
			if i < 0 {
				break
			}
			i += from
			if r, _ := utf8.DecodeLastRuneInString(lower[:i]); i == 0 || !unicode.IsLetter(r) {
				return k, true
			}
			from = i + len(k.word)
		}
	}
	return keyword{}, false
}

func hintType(shape models.ShapeType) string {
	switch shape {
	case models.ShapeTriangle:
		return "tri"
	case models.ShapeQuad:
		return "quad"
	}
	return ""
}
