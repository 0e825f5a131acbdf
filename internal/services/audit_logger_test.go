package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintdeck/internal/models"
)

func waitResult(t *testing.T, results <-chan RecordResult) RecordResult {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit result")
		return RecordResult{}
	}
}

func TestRecordPersistsCompleteEvent(t *testing.T) {
	db := newTestDB(t)
	al := NewAuditLogger(db, 8)
	al.Start()
	defer al.Stop()

	eventID, results := al.Record("update", "downtime_windows", "finished", 0, 1)
	r := waitResult(t, results)
	assert.Equal(t, eventID, r.EventID)
	assert.Equal(t, RecordSuccess, r.Status)
	require.NoError(t, r.Err)

	var entries []models.AuditLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "update", entries[0].ActionTaken)
	assert.Equal(t, "downtime_windows", entries[0].TableName)
	assert.Equal(t, "finished", entries[0].ColumnName)
	assert.JSONEq(t, "0", string(entries[0].FromValue))
	assert.JSONEq(t, "1", string(entries[0].ToValue))
	assert.False(t, entries[0].TimeStamp.IsZero())
}

func TestRecordSkipsIncompleteEvent(t *testing.T) {
	db := newTestDB(t)
	al := NewAuditLogger(db, 8)
	al.Start()
	defer al.Stop()

	// Missing toValue: nothing is persisted, but the producer still gets a
	// terminal status.
	_, results := al.Record("update", "downtime_windows", "finished", 0, nil)
	r := waitResult(t, results)
	assert.Equal(t, RecordSkipped, r.Status)
	assert.NoError(t, r.Err)

	_, results = al.Record("", "downtime_windows", "finished", 0, 1)
	r = waitResult(t, results)
	assert.Equal(t, RecordSkipped, r.Status)

	_, results = al.Record("update", "downtime_windows", "finished", "", 1)
	r = waitResult(t, results)
	assert.Equal(t, RecordSkipped, r.Status)

	var count int64
	require.NoError(t, db.Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecordDropsWhenQueueFull(t *testing.T) {
	db := newTestDB(t)
	// Worker intentionally not started; the single slot fills immediately.
	al := NewAuditLogger(db, 1)

	_, first := al.Record("update", "downtime_windows", "finished", 0, 1)
	_, second := al.Record("update", "downtime_windows", "archived", 0, 1)

	r := waitResult(t, second)
	assert.Equal(t, RecordDropped, r.Status)

	select {
	case <-first:
		t.Fatal("queued event should not have a result before the worker runs")
	default:
	}
}

func TestStopDrainsQueue(t *testing.T) {
	db := newTestDB(t)
	al := NewAuditLogger(db, 8)
	al.Start()

	_, results := al.Record("delete", "systems", "url", "https://old.example.com", "https://new.example.com")
	al.Stop()

	r := waitResult(t, results)
	assert.Equal(t, RecordSuccess, r.Status)

	var count int64
	require.NoError(t, db.Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
