package render

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"figure-renderer/internal/figures/models"
	"figure-renderer/internal/figures/parser"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestRenderer(opts ...Option) *Renderer {
	opts = append([]Option{WithParser(parser.New(parser.WithRand(rand.New(rand.NewPCG(1, 2)))))}, opts...)
	return NewRenderer(opts...)
}

func TestRenderTriangleAndSquare(t *testing.T) {
	res, err := newTestRenderer().Render(context.Background(), DefaultConfig(), []string{"a=3,b=4,c=5", "kvadrat a=4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Jobs) != 2 || len(res.Summaries) != 2 {
		t.Fatalf("jobs = %d, summaries = %d, want 2 and 2", len(res.Jobs), len(res.Summaries))
	}
	if res.Failed() != 0 {
		t.Fatalf("failed figures: %+v", res.Summaries)
	}

	tri := res.Summaries[0]
	if tri.Type != models.ShapeTriangle || !near(tri.Values["C"], 90, 1e-6) {
		t.Errorf("triangle summary = %+v, want C=90", tri)
	}

	sq := res.Summaries[1]
	if sq.Type != models.ShapeQuad {
		t.Errorf("square type = %q", sq.Type)
	}
	for _, k := range []string{"a", "b", "c", "d"} {
		if !near(sq.Values[k], 4, 1e-6) {
			t.Errorf("square %s = %v, want 4", k, sq.Values[k])
		}
	}
	for _, k := range []string{"A", "B", "C", "D"} {
		if !near(sq.Values[k], 90, 1e-6) {
			t.Errorf("square %s = %v, want 90", k, sq.Values[k])
		}
	}
	rights := 0
	for _, m := range sq.AngleMarks {
		if m.Right {
			rights++
		}
	}
	if rights != 4 {
		t.Errorf("square right-angle marks = %d, want 4", rights)
	}

	if !strings.HasPrefix(res.SVG, "<?xml") || strings.Count(res.SVG, `<g id="figure-`) != 2 {
		t.Errorf("unexpected SVG:\n%s", res.SVG)
	}
}

func TestRenderIsolatesFailures(t *testing.T) {
	lines := []string{
		"a=3,b=4,c=5",
		"a=1,b=1,c=10",
		"dobbel trekant felles side: AB | trekant 1: a=3,b=4,c=5 | trekant 2: a=10,b=11,c=12",
		"sirkel r=2",
	}
	res, err := newTestRenderer().Render(context.Background(), DefaultConfig(), lines)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Summaries) != 4 {
		t.Fatalf("summaries = %d, want 4", len(res.Summaries))
	}
	for i, wantErr := range []bool{false, true, true, false} {
		if got := res.Summaries[i].Error != ""; got != wantErr {
			t.Errorf("figure %d error = %q, want error %v", i, res.Summaries[i].Error, wantErr)
		}
	}
	if !strings.Contains(res.SVG, DefaultConfig().ErrorColor) {
		t.Error("error panel not drawn")
	}
}

func TestRenderSkipsBlankAndPassesMisses(t *testing.T) {
	res, err := newTestRenderer().Render(context.Background(), DefaultConfig(), []string{"", "   ", "hei", "sirkel r=1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Jobs) != 1 {
		t.Errorf("jobs = %d, want 1", len(res.Jobs))
	}
	if len(res.Normalized) != 2 || res.Normalized[0] != "hei" || res.Normalized[1] != "sirkel r=1" {
		t.Errorf("normalized = %q", res.Normalized)
	}
}

func TestRenderGridHasTwoColumns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxColumns = 5
	res, err := newTestRenderer().Render(context.Background(), cfg, []string{"kvadrat 3", "kvadrat 3", "kvadrat 3"})
	if err != nil {
		t.Fatal(err)
	}
	cfg.ApplyDefaults()
	if res.Width > 2*cfg.PanelWidth+cfg.Gap+2*(cfg.Padding+cfg.StrokeWidth) {
		t.Errorf("width %v wider than two panels", res.Width)
	}
	if res.Height <= cfg.PanelHeight {
		t.Errorf("height %v, want a second row", res.Height)
	}
}

func TestRenderDecorations(t *testing.T) {
	res, err := newTestRenderer().Render(context.Background(), DefaultConfig(), []string{
		"kvadrat a=4; diagonal: AC, BD, AX; halvsirkel AB r=2; kvadrat BC",
		"a=3,b=4,c=5; høyde: C/AB; høyde: A/AB",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := res.Summaries[0].Decorations
	want := []string{"diagonal: AC", "diagonal: BD", "halvsirkel: AB r=2", "kvadrat: BC"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("square decorations = %q, want %q", got, want)
	}
	// the second height is degenerate and silently omitted
	if got := res.Summaries[1].Decorations; len(got) != 1 || got[0] != "høyde: C/AB" {
		t.Errorf("triangle decorations = %q", got)
	}
}

type stubInterpreter struct {
	reply string
	err   error
	calls int
}

func (s *stubInterpreter) Interpret(ctx context.Context, line string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestRenderInterpreterFallback(t *testing.T) {
	stub := &stubInterpreter{reply: "a=3, b=4, c=5"}
	res, err := newTestRenderer(WithInterpreter(stub)).Render(context.Background(), DefaultConfig(),
		[]string{"figur med sidene tre, fire og fem", "kvadrat 2"})
	if err != nil {
		t.Fatal(err)
	}
	if stub.calls != 1 {
		t.Errorf("interpreter calls = %d, want 1", stub.calls)
	}
	if len(res.Jobs) != 2 || res.Jobs[0].Source != "figur med sidene tre, fire og fem" {
		t.Fatalf("jobs = %+v", res.Jobs)
	}
	if res.Normalized[0] != "a=3, b=4, c=5" {
		t.Errorf("normalized = %q", res.Normalized[0])
	}

	failing := &stubInterpreter{err: errors.New("boom")}
	res, err = newTestRenderer(WithInterpreter(failing)).Render(context.Background(), DefaultConfig(), []string{"ukjent"})
	if err != nil {
		t.Fatal(err)
	}
	if failing.calls != 1 || len(res.Jobs) != 0 || res.Normalized[0] != "ukjent" {
		t.Errorf("failed interpreter: calls %d, jobs %d, normalized %q", failing.calls, len(res.Jobs), res.Normalized)
	}
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestRenderer().Render(ctx, DefaultConfig(), []string{"kvadrat 2"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenderAllShapes(t *testing.T) {
	lines := []string{
		"firkant a=4, b=3, c=4, A=90",
		"parallellogram 6 3",
		"mangekant sider: 6 side: a=4",
		"halvsirkel AB radius: r=3",
		"sirkel d=5",
		"dobbel trekant felles side: AB | trekant 1: a=3,b=4,c=5 | trekant 2: a=4, b=4, c=5",
		"Rettvinklet trekant",
	}
	res, err := newTestRenderer().Render(context.Background(), DefaultConfig(), lines)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Summaries) != len(lines) {
		t.Fatalf("summaries = %d, want %d", len(res.Summaries), len(lines))
	}
	for i, s := range res.Summaries {
		if s.Error != "" {
			t.Errorf("%q failed: %s", lines[i], s.Error)
		}
	}
	if r := res.Summaries[4].Values["r"]; !near(r, 2.5, 1e-9) {
		t.Errorf("circle r = %v, want 2.5", r)
	}
	if n := res.Summaries[2].Values["n"]; n != 6 {
		t.Errorf("polygon n = %v", n)
	}
}
