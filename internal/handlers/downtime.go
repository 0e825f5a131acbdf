package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"maintdeck/internal/services"
	"maintdeck/internal/store"
)

type DowntimeHandler struct {
	store   *store.DowntimeStore
	sweeper *services.Sweeper
}

func NewDowntimeHandler(st *store.DowntimeStore, sweeper *services.Sweeper) *DowntimeHandler {
	return &DowntimeHandler{store: st, sweeper: sweeper}
}

// CreateWindow schedules a new downtime window. systemId, fromTime and toTime
// are required; ordering between the two timestamps is deliberately not
// enforced.
func (h *DowntimeHandler) CreateWindow(c *fiber.Ctx) error {
	var req struct {
		SystemID int64      `json:"systemId"`
		FromTime *time.Time `json:"fromTime"`
		ToTime   *time.Time `json:"toTime"`
		Reason   string     `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.SystemID == 0 || req.FromTime == nil || req.ToTime == nil {
		return failure(c, fiber.StatusBadRequest, "systemId, fromTime and toTime are required")
	}

	id, err := h.store.Create(req.SystemID, *req.FromTime, *req.ToTime, req.Reason, actorFrom(c))
	if err != nil {
		return renderError(c, err, "Failed to create downtime window")
	}
	return success(c, fiber.StatusCreated, "Downtime window created", fiber.Map{"id": id})
}

// ListWindows returns one page of windows, newest first, with the total count.
func (h *DowntimeHandler) ListWindows(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	rows, total, err := h.store.List(page, limit)
	if err != nil {
		return renderError(c, err, "Failed to list downtime windows")
	}
	return successList(c, "Downtime windows retrieved", rows, total)
}

func (h *DowntimeHandler) GetWindow(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid downtime window ID")
	}

	detail, err := h.store.GetByID(id)
	if err != nil {
		return renderError(c, err, "Failed to load downtime window")
	}
	return success(c, fiber.StatusOK, "Downtime window retrieved", detail)
}

// UpdateWindow applies a partial update. Only finished and archived are
// recognized, each constrained to 0 or 1; anything else is ignored and an
// update with no valid field left fails validation.
func (h *DowntimeHandler) UpdateWindow(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid downtime window ID")
	}

	var patch store.WindowUpdate
	if err := c.BodyParser(&patch); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.store.Update(id, patch, actorFrom(c)); err != nil {
		return renderError(c, err, "Failed to update downtime window")
	}
	return success(c, fiber.StatusOK, "Downtime window updated", nil)
}

// Sweep triggers the reconciliation sweep on demand and reports how many
// windows were transitioned to finished.
func (h *DowntimeHandler) Sweep(c *fiber.Ctx) error {
	updated, err := h.sweeper.Sweep()
	if err != nil {
		return renderError(c, err, "Sweep failed")
	}
	return success(c, fiber.StatusOK, "Sweep completed", fiber.Map{"updatedCount": updated})
}
