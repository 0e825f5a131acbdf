package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"maintdeck/internal/config"
	"maintdeck/internal/database"
	"maintdeck/internal/handlers"
	"maintdeck/internal/routes"
	"maintdeck/internal/services"
	"maintdeck/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.Info("Starting Maintdeck", "version", handlers.Version)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		if err := database.SeedSystems(db); err != nil {
			slog.Warn("Registry seed failed", "error", err)
		}
	}

	// Stores
	downtimeStore := store.NewDowntimeStore(db)
	systemStore := store.NewSystemStore(db)

	// Background services
	auditLogger := services.NewAuditLogger(db, cfg.AuditQueueSize)
	auditLogger.Start()

	sweeper := services.NewSweeper(downtimeStore, cfg.SweepSchedule)
	if cfg.SweepEnabled {
		if err := sweeper.Start(); err != nil {
			slog.Error("Sweeper start failed", "schedule", cfg.SweepSchedule, "error", err)
			os.Exit(1)
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg)
	systemHandler := handlers.NewSystemHandler(systemStore)
	downtimeHandler := handlers.NewDowntimeHandler(downtimeStore, sweeper)
	auditHandler := handlers.NewAuditHandler(db, auditLogger)

	app := fiber.New(fiber.Config{
		AppName:      "maintdeck v" + handlers.Version,
		ServerHeader: "maintdeck",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"status":    "Failure",
				"message":   message,
				"timestamp": time.Now().UTC(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(recover.New())

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Path() == "/api/health" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	routes.Setup(app, cfg, authHandler, systemHandler, downtimeHandler, auditHandler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down Maintdeck...")

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		// Producers are gone once the server is down; drain the workers,
		// then release the pool.
		if cfg.SweepEnabled {
			sweeper.Stop()
		}
		auditLogger.Stop()

		if err := database.Close(db); err != nil {
			slog.Error("Database close error", "error", err)
		}
	}()

	listenAddr := ":" + cfg.Port
	slog.Info("Maintdeck listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
