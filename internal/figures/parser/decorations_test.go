package parser

import (
	"reflect"
	"testing"

	"figure-renderer/internal/figures/models"
)

func TestExtractDecorations(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		core  string
		decos []models.Decoration
	}{
		{
			name: "no decorations",
			in:   "a=3, b=4, c=5",
			core: "a=3, b=4, c=5",
		},
		{
			name: "diagonals",
			in:   "kvadrat a=4; diagonal: AC, BD",
			core: "kvadrat a=4",
			decos: []models.Decoration{
				{Kind: models.DecorationDiagonal, From: "A", To: "C", Text: "diagonal: AC"},
				{Kind: models.DecorationDiagonal, From: "B", To: "D", Text: "diagonal: BD"},
			},
		},
		{
			name: "heights without separator",
			in:   "a=3,b=4,c=5 høyder: A/BC, C",
			core: "a=3,b=4,c=5",
			decos: []models.Decoration{
				{Kind: models.DecorationHeight, From: "A", BaseSide: "BC", ExplicitBase: true, Text: "høyde: A/BC"},
				{Kind: models.DecorationHeight, From: "C", Text: "høyde: C"},
			},
		},
		{
			name: "height to vertex base",
			in:   "a=3,b=4,c=5; høyde: C/A",
			core: "a=3,b=4,c=5",
			decos: []models.Decoration{
				{Kind: models.DecorationHeight, From: "C", Base: "A", ExplicitBase: true, Text: "høyde: C/A"},
			},
		},
		{
			name: "height shorthand",
			in:   "a=3,b=4,c=5 C til AB",
			core: "a=3,b=4,c=5",
			decos: []models.Decoration{
				{Kind: models.DecorationHeight, From: "C", BaseSide: "AB", ExplicitBase: true, Text: "høyde: C/AB"},
			},
		},
		{
			name: "height keyword keeps its shorthand",
			in:   "a=3,b=4,c=5; høyde fra C til AB",
			core: "a=3,b=4,c=5",
			decos: []models.Decoration{
				{Kind: models.DecorationHeight, From: "C", BaseSide: "AB", ExplicitBase: true, Text: "høyde: C/AB"},
			},
		},
		{
			name: "semicircle and square",
			in:   "rektangel 6 3; halvsirkel BC r=1,5; kvadrat AB",
			core: "rektangel 6 3",
			decos: []models.Decoration{
				{Kind: models.DecorationSemicircle, From: "B", To: "C", Radius: 1.5, Text: "halvsirkel: BC r=1.5"},
				{Kind: models.DecorationSquare, From: "A", To: "B", Text: "kvadrat: AB"},
			},
		},
		{
			name: "semicircle diameter",
			in:   "kvadrat 4 halvsirkel CD diameter: 4",
			core: "kvadrat 4",
			decos: []models.Decoration{
				{Kind: models.DecorationSemicircle, From: "C", To: "D", Diameter: 4, Text: "halvsirkel: CD d=4"},
			},
		},
		{
			name: "keywords inside parentheses are text",
			in:   "trekant 3 4 5 (uten diagonal AC)",
			core: "trekant 3 4 5 (uten diagonal AC)",
		},
		{
			name: "keywords inside quotes are text",
			in:   `trekant 3 4 5 "kvadrat AB"`,
			core: `trekant 3 4 5 "kvadrat AB"`,
		},
		{
			name: "unparseable segment dropped",
			in:   "a=3,b=4,c=5; diagonal: ; kvadrat AB",
			core: "a=3,b=4,c=5",
			decos: []models.Decoration{
				{Kind: models.DecorationSquare, From: "A", To: "B", Text: "kvadrat: AB"},
			},
		},
		{
			name: "leading keyword is the shape",
			in:   "halvsirkel AB radius: r=3",
			core: "halvsirkel AB radius: r=3",
		},
		{
			name: "inflected word is not a keyword",
			in:   "kvadrat 4 med diagonalen",
			core: "kvadrat 4 med diagonalen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, decos := ExtractDecorations(tt.in)
			if core != tt.core {
				t.Errorf("core = %q, want %q", core, tt.core)
			}
			if !reflect.DeepEqual(decos, tt.decos) {
				t.Errorf("decorations = %+v, want %+v", decos, tt.decos)
			}
		})
	}
}
