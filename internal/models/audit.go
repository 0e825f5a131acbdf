package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLogEntry is an immutable record of a field-level change somewhere in
// the platform. Entries are append-only; nothing updates or deletes them.
type AuditLogEntry struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ActionTaken string         `gorm:"size:255;not null" json:"action_taken"`
	TableName   string         `gorm:"size:100;not null" json:"table_name"`
	ColumnName  string         `gorm:"size:255;not null" json:"column_name"`
	FromValue   datatypes.JSON `json:"from_value"`
	ToValue     datatypes.JSON `json:"to_value"`
	TimeStamp   time.Time      `gorm:"not null" json:"time_stamp"`
}
