package handlers

import "github.com/gofiber/fiber/v3"

// Register mounts health, docs and figure routes on r.
func Register(r fiber.Router, h *FigureHandler, db Pinger) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", ReadinessProbe(db))
	r.Get("/health/startup", StartupProbe)

	r.Get("/docs", SwaggerUI)
	r.Get("/docs/openapi.yaml", OpenAPISpec)

	r.Post("/render", h.Render)
	r.Post("/render/svg", h.RenderSVG)

	r.Post("/figures", h.Create)
	r.Get("/figures", h.List)
	r.Get("/figures/:id", h.Get)
	r.Get("/figures/:id/svg", h.GetSVG)
	r.Delete("/figures/:id", h.Delete)
}
