package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintdeck/internal/models"
)

// SweepActor is stamped as updated_by on windows finished by the
// reconciliation sweep.
const SweepActor = "SYSTEM"

// DowntimeStore owns the downtime_windows table. Every multi-step mutation
// runs inside a single transaction; nothing upstream touches rows directly.
type DowntimeStore struct {
	db *gorm.DB
}

func NewDowntimeStore(db *gorm.DB) *DowntimeStore {
	return &DowntimeStore{db: db}
}

// WindowUpdate is a typed partial update. Only finished and archived are
// mutable after creation; a field is applied only when it is set and its
// value is exactly 0 or 1.
type WindowUpdate struct {
	Finished *int `json:"finished"`
	Archived *int `json:"archived"`
}

// WindowRow is a list row joined with the owning system's display name.
type WindowRow struct {
	models.DowntimeWindow
	SystemName string `json:"system_name"`
}

// WindowDetail adds the system URL for single-window lookups.
type WindowDetail struct {
	models.DowntimeWindow
	SystemName string `json:"system_name"`
	SystemURL  string `json:"system_url"`
}

// Create inserts a new scheduled window. The registry existence check runs in
// the same transaction as the insert, so a missing system can never leave a
// partial row behind.
func (s *DowntimeStore) Create(systemID int64, from, to time.Time, reason, actor string) (int64, error) {
	if systemID <= 0 {
		return 0, fmt.Errorf("%w: systemId is required", ErrValidation)
	}
	if from.IsZero() || to.IsZero() {
		return 0, fmt.Errorf("%w: fromTime and toTime are required", ErrValidation)
	}

	var id int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.System{}).Where("id = ?", systemID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking system %d: %w", systemID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: system %d does not exist", ErrNotFound, systemID)
		}

		now := time.Now().UTC()
		window := models.DowntimeWindow{
			SystemID:  systemID,
			FromTime:  from,
			ToTime:    to,
			Reason:    reason,
			CreatedAt: now,
			CreatedBy: actor,
			UpdatedAt: now,
			UpdatedBy: actor,
		}
		if err := tx.Create(&window).Error; err != nil {
			return fmt.Errorf("creating downtime window: %w", err)
		}
		id = window.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns one page of windows, newest first, with the total row count
// for pagination math.
func (s *DowntimeStore) List(page, pageSize int) ([]WindowRow, int64, error) {
	if page < 1 {
		return nil, 0, fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, 0, fmt.Errorf("%w: pageSize must be between 1 and 100", ErrValidation)
	}

	var total int64
	if err := s.db.Model(&models.DowntimeWindow{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting downtime windows: %w", err)
	}

	var rows []WindowRow
	err := s.db.Model(&models.DowntimeWindow{}).
		Select("downtime_windows.*, systems.name AS system_name").
		Joins("JOIN systems ON systems.id = downtime_windows.system_id").
		Order("downtime_windows.id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing downtime windows: %w", err)
	}
	return rows, total, nil
}

// GetByID loads one window together with the referenced system's name and URL.
func (s *DowntimeStore) GetByID(id int64) (*WindowDetail, error) {
	var detail WindowDetail
	err := s.db.Model(&models.DowntimeWindow{}).
		Select("downtime_windows.*, systems.name AS system_name, systems.url AS system_url").
		Joins("JOIN systems ON systems.id = downtime_windows.system_id").
		Where("downtime_windows.id = ?", id).
		Take(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: downtime window %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading downtime window %d: %w", id, err)
	}
	return &detail, nil
}

// Update applies a whitelisted partial update. Fields carrying a value other
// than 0 or 1 are ignored; if nothing valid remains the call fails validation
// without touching the row. updated_at/updated_by are always stamped.
func (s *DowntimeStore) Update(id int64, patch WindowUpdate, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var window models.DowntimeWindow
		if err := tx.First(&window, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: downtime window %d", ErrNotFound, id)
			}
			return fmt.Errorf("loading downtime window %d: %w", id, err)
		}

		updates := map[string]interface{}{}
		if patch.Finished != nil && (*patch.Finished == 0 || *patch.Finished == 1) {
			updates["finished"] = *patch.Finished
		}
		if patch.Archived != nil && (*patch.Archived == 0 || *patch.Archived == 1) {
			updates["archived"] = *patch.Archived
		}
		if len(updates) == 0 {
			return fmt.Errorf("%w: no valid fields to update", ErrValidation)
		}

		updates["updated_at"] = time.Now().UTC()
		updates["updated_by"] = actor

		if err := tx.Model(&models.DowntimeWindow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating downtime window %d: %w", id, err)
		}
		return nil
	})
}

// FinishExpired bulk-transitions every unfinished, unarchived window whose
// interval has passed. The conditional update is what makes the sweep
// idempotent: rows finished by an earlier pass no longer match the predicate.
func (s *DowntimeStore) FinishExpired(now time.Time) (int64, error) {
	var affected int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DowntimeWindow{}).
			Where("finished = 0 AND archived = 0 AND to_time < ?", now).
			Updates(map[string]interface{}{
				"finished":   1,
				"updated_at": now,
				"updated_by": SweepActor,
			})
		if res.Error != nil {
			return fmt.Errorf("finishing expired windows: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
