package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"figure-renderer/internal/figures/models"
	"figure-renderer/internal/figures/render"
	"figure-renderer/internal/figures/repository"

	"github.com/gofiber/fiber/v3"
)

// Store is the persistence the figure handlers need.
type Store interface {
	Create(ctx context.Context, lines, normalized []string, summaries []models.RenderSummary) (*models.Figure, error)
	GetByID(ctx context.Context, id string) (*models.Figure, error)
	List(ctx context.Context, limit int) ([]models.Figure, error)
	Delete(ctx context.Context, id string) error
}

// ============================================================
// Figure Handler
// ============================================================

type FigureHandler struct {
	renderer *render.Renderer
	store    Store
	cfg      render.Config
	log      *slog.Logger
}

func NewFigureHandler(renderer *render.Renderer, store Store, cfg render.Config, log *slog.Logger) *FigureHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FigureHandler{renderer: renderer, store: store, cfg: cfg, log: log}
}

// renderRequest accepts either explicit lines or one block of text.
type renderRequest struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

type renderResponse struct {
	ID         string                 `json:"id,omitempty"`
	SVG        string                 `json:"svg"`
	Width      float64                `json:"width"`
	Height     float64                `json:"height"`
	Summaries  []models.RenderSummary `json:"summaries"`
	Normalized []string               `json:"normalized"`
	CreatedAt  string                 `json:"created_at,omitempty"`
}

// Render draws the posted lines and answers with SVG plus summaries.
func (h *FigureHandler) Render(c fiber.Ctx) error {
	lines, err := readLines(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := h.renderer.Render(c.Context(), h.cfg, lines)
	if err != nil {
		return h.renderFailed(c, err)
	}
	return c.JSON(toResponse(res))
}

// RenderSVG draws the posted lines and answers with the raw document.
func (h *FigureHandler) RenderSVG(c fiber.Ctx) error {
	lines, err := readLines(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := h.renderer.Render(c.Context(), h.cfg, lines)
	if err != nil {
		return h.renderFailed(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(res.SVG)
}

// Create renders the lines, then stores their canonical text.
func (h *FigureHandler) Create(c fiber.Ctx) error {
	lines, err := readLines(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := h.renderer.Render(c.Context(), h.cfg, lines)
	if err != nil {
		return h.renderFailed(c, err)
	}

	fig, err := h.store.Create(c.Context(), lines, res.Normalized, res.Summaries)
	if err != nil {
		h.log.Error("figures: store failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store failed"})
	}
	h.log.Info("figures: stored", "id", fig.ID, "figures", len(res.Summaries), "failed", res.Failed())

	out := toResponse(res)
	out.ID = fig.ID
	out.CreatedAt = fig.CreatedAt
	return c.Status(http.StatusCreated).JSON(out)
}

func (h *FigureHandler) List(c fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = n
	}
	figs, err := h.store.List(c.Context(), limit)
	if err != nil {
		h.log.Error("figures: list failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "list failed"})
	}
	return c.JSON(fiber.Map{"figures": figs})
}

func (h *FigureHandler) Get(c fiber.Ctx) error {
	fig, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(fig)
}

// GetSVG re-solves the stored canonical text.
func (h *FigureHandler) GetSVG(c fiber.Ctx) error {
	fig, err := h.load(c)
	if err != nil {
		return err
	}
	res, err := h.renderer.Render(c.Context(), h.cfg, fig.Normalized)
	if err != nil {
		return h.renderFailed(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(res.SVG)
}

func (h *FigureHandler) Delete(c fiber.Ctx) error {
	err := h.store.Delete(c.Context(), c.Params("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "figure not found"})
	case err != nil:
		h.log.Error("figures: delete failed", "id", c.Params("id"), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.SendStatus(http.StatusNoContent)
}

// load writes the error response itself; a non-nil error ends the handler.
func (h *FigureHandler) load(c fiber.Ctx) (*models.Figure, error) {
	id := c.Params("id")
	fig, err := h.store.GetByID(c.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "figure not found"})
	case err != nil:
		h.log.Error("figures: load failed", "id", id, "error", err)
		return nil, c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load failed"})
	}
	return fig, nil
}

func (h *FigureHandler) renderFailed(c fiber.Ctx, err error) error {
	h.log.Warn("figures: render aborted", "error", err)
	return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
}

func readLines(c fiber.Ctx) ([]string, error) {
	if len(c.Body()) == 0 {
		return nil, errors.New("body required")
	}
	var req renderRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, errors.New("invalid json")
	}
	lines := req.Lines
	if len(lines) == 0 && req.Text != "" {
		lines = strings.Split(strings.ReplaceAll(req.Text, "\r\n", "\n"), "\n")
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return lines, nil
		}
	}
	return nil, errors.New("lines required")
}

func toResponse(res *render.Result) renderResponse {
	out := renderResponse{
		SVG:        res.SVG,
		Width:      res.Width,
		Height:     res.Height,
		Summaries:  res.Summaries,
		Normalized: res.Normalized,
	}
	if out.Summaries == nil {
		out.Summaries = []models.RenderSummary{}
	}
	if out.Normalized == nil {
		out.Normalized = []string{}
	}
	return out
}
