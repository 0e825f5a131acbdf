package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"maintdeck/internal/store"
)

// SystemHandler exposes the read-only registry view plus the health probe.
type SystemHandler struct {
	systems *store.SystemStore
}

func NewSystemHandler(systems *store.SystemStore) *SystemHandler {
	return &SystemHandler{systems: systems}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "ok", fiber.Map{"version": Version})
}

func (h *SystemHandler) ListSystems(c *fiber.Ctx) error {
	systems, err := h.systems.List()
	if err != nil {
		return renderError(c, err, "Failed to list systems")
	}
	return successList(c, "Systems retrieved", systems, int64(len(systems)))
}

func (h *SystemHandler) GetSystem(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid system ID")
	}

	system, err := h.systems.GetByID(id)
	if err != nil {
		return renderError(c, err, "Failed to load system")
	}
	return success(c, fiber.StatusOK, "System retrieved", system)
}
