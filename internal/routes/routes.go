package routes

import (
	"github.com/gofiber/fiber/v2"

	"maintdeck/internal/config"
	"maintdeck/internal/handlers"
	"maintdeck/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	systemHandler *handlers.SystemHandler,
	downtimeHandler *handlers.DowntimeHandler,
	auditHandler *handlers.AuditHandler,
) {
	// Public
	app.Get("/api/health", systemHandler.Health)
	app.Post("/api/auth/login", authHandler.Login)

	// Protected
	api := app.Group("/api", middleware.JWTProtected(cfg.JWTSecret))

	api.Get("/auth/me", authHandler.Me)

	// Registry (read-only)
	api.Get("/systems", systemHandler.ListSystems)
	api.Get("/systems/:id", systemHandler.GetSystem)

	// Downtime windows
	api.Get("/downtimes", downtimeHandler.ListWindows)
	api.Post("/downtimes", downtimeHandler.CreateWindow)
	api.Post("/downtimes/sweep", downtimeHandler.Sweep)
	api.Get("/downtimes/:id", downtimeHandler.GetWindow)
	api.Patch("/downtimes/:id", downtimeHandler.UpdateWindow)

	// Audit log
	api.Get("/audit/logs", auditHandler.ListAuditLogs)
	api.Post("/audit/logs", auditHandler.RecordAuditLog)
}
