package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"figure-renderer/internal/figures/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "figures.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	if err := repo.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	// migrations are idempotent
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	return repo
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	summaries := []models.RenderSummary{{
		Type:        models.ShapeTriangle,
		Values:      map[string]float64{"a": 3, "b": 4, "c": 5, "C": 90},
		Decorations: []string{"høyde: C/AB"},
		AngleMarks:  []models.AngleMark{{Vertex: "C", Degrees: 90, Right: true}},
	}}
	created, err := repo.Create(ctx, []string{"a=3,b=4,c=5; høyde: C/AB"}, []string{"a=3, b=4, c=5; høyde: C/AB"}, summaries)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatalf("created = %+v", created)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lines[0] != "a=3,b=4,c=5; høyde: C/AB" || got.Normalized[0] != "a=3, b=4, c=5; høyde: C/AB" {
		t.Errorf("text = %q / %q", got.Lines, got.Normalized)
	}
	if len(got.Summaries) != 1 || got.Summaries[0].Values["C"] != 90 || !got.Summaries[0].AngleMarks[0].Right {
		t.Errorf("summaries = %+v", got.Summaries)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for _, line := range []string{"sirkel r=1", "sirkel r=2", "sirkel r=3"} {
		f, err := repo.Create(ctx, []string{line}, []string{line}, nil)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, f.ID)
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{ids[2], ids[1], ids[0]}},
		{2, []string{ids[2], ids[1]}},
	}
	for _, tt := range tests {
		got, err := repo.List(ctx, tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("limit %d: got %d figures, want %d", tt.limit, len(got), len(tt.want))
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("limit %d: figure %d = %s, want %s", tt.limit, i, got[i].ID, tt.want[i])
			}
		}
		if got[0].Summaries == nil {
			t.Error("summaries should decode to an empty list")
		}
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f, err := repo.Create(ctx, []string{"kvadrat 3"}, []string{"kvadrat a=3, b=3, c=3, d=3, B=90"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, f.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete: %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v, want ErrNotFound", err)
	}
}
