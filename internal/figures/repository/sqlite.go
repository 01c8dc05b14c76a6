package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"figure-renderer/internal/figures/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no figure has the requested id.
var ErrNotFound = errors.New("figure not found")

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Init applies the embedded migrations in file name order.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Create stores the source lines with their canonical text and summaries.
func (r *Repository) Create(ctx context.Context, lines, normalized []string, summaries []models.RenderSummary) (*models.Figure, error) {
	f := &models.Figure{
		ID:         uuid.New().String(),
		Lines:      nonNil(lines),
		Normalized: nonNil(normalized),
		Summaries:  summaries,
		CreatedAt:  r.now().UTC().Format(timeLayout),
	}
	if f.Summaries == nil {
		f.Summaries = []models.RenderSummary{}
	}

	linesJSON, err := json.Marshal(f.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	normJSON, err := json.Marshal(f.Normalized)
	if err != nil {
		return nil, fmt.Errorf("encode normalized: %w", err)
	}
	sumJSON, err := json.Marshal(f.Summaries)
	if err != nil {
		return nil, fmt.Errorf("encode summaries: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO figures (id, lines, normalized, summaries, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, f.ID, string(linesJSON), string(normJSON), string(sumJSON), f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert figure: %w", err)
	}
	return f, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Figure, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, lines, normalized, summaries, created_at
        FROM figures
        WHERE id = ?
    `, id)

	f, err := scanFigure(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns the newest figures first. limit <= 0 means no limit.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Figure, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, lines, normalized, summaries, created_at
        FROM figures
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	defer rows.Close()

	out := []models.Figure{}
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM figures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete figure: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete figure: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFigure(s scanner) (*models.Figure, error) {
	var f models.Figure
	var lines, norm, summaries string
	if err := s.Scan(&f.ID, &lines, &norm, &summaries, &f.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(lines), &f.Lines); err != nil {
		return nil, fmt.Errorf("decode lines of %s: %w", f.ID, err)
	}
	if err := json.Unmarshal([]byte(norm), &f.Normalized); err != nil {
		return nil, fmt.Errorf("decode normalized of %s: %w", f.ID, err)
	}
	if err := json.Unmarshal([]byte(summaries), &f.Summaries); err != nil {
		return nil, fmt.Errorf("decode summaries of %s: %w", f.ID, err)
	}
	return &f, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// OpenSQLite opens (and creates if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
