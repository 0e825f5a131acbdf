package models

import "time"

// DowntimeWindow is a scheduled maintenance interval for one registry system.
// finished and archived are 0/1 flags; rows are never deleted, archiving is
// the terminal state for this service.
type DowntimeWindow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SystemID  int64     `gorm:"not null;index" json:"system_id"`
	FromTime  time.Time `gorm:"not null" json:"from_time"`
	ToTime    time.Time `gorm:"not null" json:"to_time"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Finished  int16     `gorm:"not null;default:0" json:"finished"`
	Archived  int16     `gorm:"not null;default:0" json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"size:100" json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"size:100" json:"updated_by"`
}
