package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"maintdeck/internal/config"
	"maintdeck/internal/middleware"
)

// AuthHandler implements the single-operator login. The authenticated
// username is the actor recorded on every downtime mutation.
type AuthHandler struct {
	cfg          *config.Config
	passwordHash string
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash admin password", "error", err)
	}
	return &AuthHandler{
		cfg:          cfg,
		passwordHash: string(hash),
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Username != h.cfg.AdminUsername {
		return failure(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		return failure(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	ttl := time.Duration(h.cfg.JWTExpiryHours) * time.Hour
	token, err := middleware.GenerateToken(req.Username, h.cfg.AdminDisplayName, h.cfg.JWTSecret, ttl)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		return failure(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"username":     req.Username,
			"display_name": h.cfg.AdminDisplayName,
		},
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	displayName, _ := c.Locals("display_name").(string)

	return success(c, fiber.StatusOK, "Authenticated", fiber.Map{
		"username":     username,
		"display_name": displayName,
	})
}
