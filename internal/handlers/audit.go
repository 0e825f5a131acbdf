package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"maintdeck/internal/models"
	"maintdeck/internal/services"
)

type AuditHandler struct {
	db     *gorm.DB
	logger *services.AuditLogger
}

func NewAuditHandler(db *gorm.DB, logger *services.AuditLogger) *AuditHandler {
	return &AuditHandler{db: db, logger: logger}
}

// RecordAuditLog hands one change event to the audit worker and returns
// immediately. The write is best effort: incomplete events are dropped by the
// worker without surfacing an error here.
func (h *AuditHandler) RecordAuditLog(c *fiber.Ctx) error {
	var req struct {
		ActionTaken string `json:"actionTaken"`
		TableName   string `json:"tableName"`
		ColumnName  string `json:"columnName"`
		FromValue   any    `json:"fromValue"`
		ToValue     any    `json:"toValue"`
	}
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	eventID, _ := h.logger.Record(req.ActionTaken, req.TableName, req.ColumnName, req.FromValue, req.ToValue)
	return success(c, fiber.StatusAccepted, "Audit event accepted", fiber.Map{"eventId": eventID})
}

// ListAuditLogs returns paginated audit entries, filterable by table and
// action, newest first.
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := h.db.Model(&models.AuditLogEntry{})
	if table := c.Query("table", ""); table != "" {
		query = query.Where("table_name = ?", table)
	}
	if action := c.Query("action", ""); action != "" {
		query = query.Where("action_taken = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return renderError(c, err, "Failed to count audit logs")
	}

	var entries []models.AuditLogEntry
	if err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return renderError(c, err, "Failed to list audit logs")
	}

	return successList(c, "Audit logs retrieved", entries, total)
}
