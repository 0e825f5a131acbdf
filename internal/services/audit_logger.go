package services

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"maintdeck/internal/models"
)

// RecordStatus is the terminal outcome of one audit record request, delivered
// back to the producer on its result channel.
type RecordStatus string

const (
	RecordSuccess RecordStatus = "success"
	RecordSkipped RecordStatus = "skipped" // incomplete event, nothing persisted
	RecordDropped RecordStatus = "dropped" // queue full
	RecordFailed  RecordStatus = "failed"
)

type RecordResult struct {
	EventID uuid.UUID
	Status  RecordStatus
	Err     error
}

type auditJob struct {
	eventID     uuid.UUID
	actionTaken string
	tableName   string
	columnName  string
	fromValue   any
	toValue     any
	result      chan RecordResult
}

// AuditLogger persists change records off the request path. Producers hand
// events over a bounded channel and never block on the write; the outcome
// travels back on a one-shot result channel, never through shared state.
// Audit failures are logged and reported on that channel only, so they can
// never fail the mutation that produced them.
type AuditLogger struct {
	db   *gorm.DB
	jobs chan auditJob
	done chan struct{}
}

func NewAuditLogger(db *gorm.DB, queueSize int) *AuditLogger {
	if queueSize < 1 {
		queueSize = 256
	}
	return &AuditLogger{
		db:   db,
		jobs: make(chan auditJob, queueSize),
		done: make(chan struct{}),
	}
}

func (a *AuditLogger) Start() {
	go a.loop()
	slog.Info("Audit logger started", "queue", cap(a.jobs))
}

// Stop drains the queue and waits for the worker to exit. Callers must stop
// producing first; the composition root only calls this after the HTTP
// server has shut down.
func (a *AuditLogger) Stop() {
	close(a.jobs)
	<-a.done
	slog.Info("Audit logger stopped")
}

// Record enqueues one audit event without blocking. The returned channel
// receives exactly one terminal result; producers are free to ignore it.
func (a *AuditLogger) Record(actionTaken, tableName, columnName string, fromValue, toValue any) (uuid.UUID, <-chan RecordResult) {
	job := auditJob{
		eventID:     uuid.New(),
		actionTaken: actionTaken,
		tableName:   tableName,
		columnName:  columnName,
		fromValue:   fromValue,
		toValue:     toValue,
		result:      make(chan RecordResult, 1),
	}

	select {
	case a.jobs <- job:
	default:
		slog.Warn("Audit queue full, event dropped", "event_id", job.eventID, "table", tableName)
		job.result <- RecordResult{EventID: job.eventID, Status: RecordDropped}
	}
	return job.eventID, job.result
}

func (a *AuditLogger) loop() {
	defer close(a.done)
	for job := range a.jobs {
		job.result <- a.persist(job)
	}
}

func (a *AuditLogger) persist(job auditJob) RecordResult {
	// Best effort: an incomplete event is silently skipped, never an error.
	if job.actionTaken == "" || job.tableName == "" || job.columnName == "" ||
		emptyValue(job.fromValue) || emptyValue(job.toValue) {
		return RecordResult{EventID: job.eventID, Status: RecordSkipped}
	}

	fromJSON, err := json.Marshal(job.fromValue)
	if err != nil {
		slog.Error("Audit from_value not serializable", "event_id", job.eventID, "error", err)
		return RecordResult{EventID: job.eventID, Status: RecordFailed, Err: err}
	}
	toJSON, err := json.Marshal(job.toValue)
	if err != nil {
		slog.Error("Audit to_value not serializable", "event_id", job.eventID, "error", err)
		return RecordResult{EventID: job.eventID, Status: RecordFailed, Err: err}
	}

	entry := models.AuditLogEntry{
		ActionTaken: job.actionTaken,
		TableName:   job.tableName,
		ColumnName:  job.columnName,
		FromValue:   datatypes.JSON(fromJSON),
		ToValue:     datatypes.JSON(toJSON),
		TimeStamp:   time.Now().UTC(),
	}
	if err := a.db.Create(&entry).Error; err != nil {
		slog.Error("Failed to persist audit entry", "event_id", job.eventID, "table", job.tableName, "error", err)
		return RecordResult{EventID: job.eventID, Status: RecordFailed, Err: err}
	}
	return RecordResult{EventID: job.eventID, Status: RecordSuccess}
}

func emptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
