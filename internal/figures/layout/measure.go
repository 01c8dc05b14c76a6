package layout

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ============================================================
// Label measurement
// ============================================================

// Measurer sizes label text with Go Regular metrics so canvas extents
// can include labels. Faces are cached per size; font.Face is not safe
// for concurrent use, so access is serialized.
type Measurer struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

func NewMeasurer() (*Measurer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("layout: failed to parse font: %w", err)
	}
	return &Measurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Size returns the advance width and line height of text at size px.
// A nil Measurer falls back to an average-glyph estimate.
func (m *Measurer) Size(text string, size float64) (width, height float64) {
	if m == nil {
		return approxSize(text, size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	face, ok := m.faces[size]
	if !ok {
		var err error
		face, err = opentype.NewFace(m.font, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return approxSize(text, size)
		}
		m.faces[size] = face
	}

	adv := font.MeasureString(face, text)
	metrics := face.Metrics()
	return float64(adv) / 64, float64(metrics.Ascent+metrics.Descent) / 64
}

func (m *Measurer) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for size, face := range m.faces {
		_ = face.Close()
		delete(m.faces, size)
	}
	return nil
}

func approxSize(text string, size float64) (float64, float64) {
	return 0.55 * size * float64(utf8.RuneCountInString(text)), 1.2 * size
}
