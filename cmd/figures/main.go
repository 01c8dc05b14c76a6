package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"figure-renderer/internal/common/config"
	"figure-renderer/internal/common/logging"
	"figure-renderer/internal/common/middleware"
	"figure-renderer/internal/figures/handlers"
	"figure-renderer/internal/figures/interpret"
	"figure-renderer/internal/figures/render"
	"figure-renderer/internal/figures/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Figure Service
// ============================================================

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Environment, cfg.LogLevel)
	render.SetLogger(logger)

	renderCfg, err := config.LoadRenderFile(cfg.RenderConfig)
	if err != nil {
		log.Fatalf("render config: %v", err)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	opts := []render.Option{}
	if cfg.AnthropicAPIKey != "" {
		opts = append(opts, render.WithInterpreter(
			interpret.NewAnthropicInterpreter(cfg.AnthropicAPIKey, interpret.WithModel(cfg.InterpreterModel)),
		))
		logger.Info("figures: free-text interpreter enabled")
	}
	renderer := render.NewRenderer(opts...)
	figureHandler := handlers.NewFigureHandler(renderer, repo, renderCfg, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Figure Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Routes
	// ============================================================

	handlers.Register(app, figureHandler, repo)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Figure Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
