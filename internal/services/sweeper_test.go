package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintdeck/internal/models"
	"maintdeck/internal/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.System{}, &models.DowntimeWindow{}, &models.AuditLogEntry{}))
	return db
}

func seedSystem(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	system := models.System{Name: "billing-api", URL: "https://billing.example.com"}
	require.NoError(t, db.Create(&system).Error)
	return system.ID
}

func TestSweepTransitionsExpiredWindows(t *testing.T) {
	db := newTestDB(t)
	systemID := seedSystem(t, db)
	sweeper := NewSweeper(store.NewDowntimeStore(db), "@every 1h")

	now := time.Now().UTC()
	windows := []models.DowntimeWindow{
		{SystemID: systemID, FromTime: now.Add(-3 * time.Hour), ToTime: now.Add(-time.Hour)},
		{SystemID: systemID, FromTime: now.Add(-3 * time.Hour), ToTime: now.Add(-time.Hour), Archived: 1},
		{SystemID: systemID, FromTime: now, ToTime: now.Add(time.Hour)},
	}
	require.NoError(t, db.Create(&windows).Error)

	updated, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	var finished models.DowntimeWindow
	require.NoError(t, db.First(&finished, "id = ?", windows[0].ID).Error)
	assert.Equal(t, int16(1), finished.Finished)
	assert.Equal(t, store.SweepActor, finished.UpdatedBy)

	// Re-running right away transitions nothing further.
	updated, err = sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
}

func TestSweeperStartStop(t *testing.T) {
	db := newTestDB(t)
	sweeper := NewSweeper(store.NewDowntimeStore(db), "@every 1h")
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	db := newTestDB(t)
	sweeper := NewSweeper(store.NewDowntimeStore(db), "not a schedule")
	assert.Error(t, sweeper.Start())
}
