package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"maintdeck/internal/models"
)

// SystemStore is a read-only view over the registry table. Registry rows are
// owned by another service; this store only answers existence and display
// lookups.
type SystemStore struct {
	db *gorm.DB
}

func NewSystemStore(db *gorm.DB) *SystemStore {
	return &SystemStore{db: db}
}

func (s *SystemStore) Exists(id int64) (bool, error) {
	var count int64
	if err := s.db.Model(&models.System{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking system %d: %w", id, err)
	}
	return count > 0, nil
}

func (s *SystemStore) GetByID(id int64) (*models.System, error) {
	var system models.System
	if err := s.db.First(&system, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: system %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading system %d: %w", id, err)
	}
	return &system, nil
}

func (s *SystemStore) List() ([]models.System, error) {
	var systems []models.System
	if err := s.db.Order("name ASC").Find(&systems).Error; err != nil {
		return nil, fmt.Errorf("listing systems: %w", err)
	}
	return systems, nil
}
