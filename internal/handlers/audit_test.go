package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintdeck/internal/models"
	"maintdeck/internal/services"
)

func newAuditTestApp(t *testing.T) (*fiber.App, *gorm.DB, *services.AuditLogger) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLogEntry{}))

	auditLogger := services.NewAuditLogger(db, 8)
	auditLogger.Start()
	h := NewAuditHandler(db, auditLogger)

	app := fiber.New()
	app.Get("/api/audit/logs", h.ListAuditLogs)
	app.Post("/api/audit/logs", h.RecordAuditLog)
	return app, db, auditLogger
}

func TestRecordAuditLogEndpoint(t *testing.T) {
	app, db, auditLogger := newAuditTestApp(t)

	body := `{"actionTaken": "update", "tableName": "subscriptions", "columnName": "plan", "fromValue": "basic", "toValue": "premium"}`
	resp, env := doJSON(t, app, http.MethodPost, "/api/audit/logs", body)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "Success", env.Status)

	var data struct {
		EventID string `json:"eventId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	_, err := uuid.Parse(data.EventID)
	assert.NoError(t, err)

	// Stop drains the queue so the write is observable.
	auditLogger.Stop()

	var entries []models.AuditLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "subscriptions", entries[0].TableName)
	assert.JSONEq(t, `"premium"`, string(entries[0].ToValue))
}

func TestRecordAuditLogEndpointBestEffort(t *testing.T) {
	app, db, auditLogger := newAuditTestApp(t)

	// Incomplete event: accepted at the transport, silently skipped by the
	// worker.
	body := `{"actionTaken": "update", "tableName": "subscriptions", "columnName": "plan", "fromValue": "basic", "toValue": ""}`
	resp, env := doJSON(t, app, http.MethodPost, "/api/audit/logs", body)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "Success", env.Status)

	auditLogger.Stop()

	var count int64
	require.NoError(t, db.Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListAuditLogsEndpoint(t *testing.T) {
	app, _, auditLogger := newAuditTestApp(t)

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"actionTaken": "update", "tableName": "table_%d", "columnName": "col", "fromValue": 1, "toValue": 2}`, i)
		resp, _ := doJSON(t, app, http.MethodPost, "/api/audit/logs", body)
		require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	}
	auditLogger.Stop()

	resp, env := doJSON(t, app, http.MethodGet, "/api/audit/logs?page=1&limit=2", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Total)
	assert.Equal(t, int64(3), *env.Total)

	var entries []models.AuditLogEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.Len(t, entries, 2)

	resp, env = doJSON(t, app, http.MethodGet, "/api/audit/logs?table=table_1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Total)
	assert.Equal(t, int64(1), *env.Total)
}
