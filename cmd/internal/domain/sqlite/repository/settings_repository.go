package repository

import (
	"errors"
	"twoclouds/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// settingsRowID pins AppSettings to a single row.
const settingsRowID = 1

type DefaultSettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{db: db}
}

func (s *DefaultSettingsRepository) Find() (*entity.AppSettings, error) {
	var settings entity.AppSettings
	err := s.db.First(&settings, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

func (s *DefaultSettingsRepository) Save(settings *entity.AppSettings) error {
	settings.ID = settingsRowID
	return s.db.Save(settings).Error
}
