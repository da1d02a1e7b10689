package repository

import (
	"errors"
	"twoclouds/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultEventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *DefaultEventRepository {
	return &DefaultEventRepository{db: db}
}

func (e *DefaultEventRepository) FindByID(id int) (*entity.Event, error) {
	var event entity.Event
	err := e.db.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

// FindVisibleTo returns the events a user may see: their own plus every
// shared one, soonest first.
func (e *DefaultEventRepository) FindVisibleTo(userID int) ([]*entity.Event, error) {
	var events []*entity.Event
	err := e.db.
		Where("owner_id = ? OR is_shared = ?", userID, true).
		Order("start_time asc").
		Find(&events).Error
	return events, err
}

// FindMonthEvents finds all events that overlap with a given month window.
// This method returns PARTIAL event entities, having only `StartTime` and
// `EndTime` fields.
func (e *DefaultEventRepository) FindMonthEvents(monthStart, monthEnd int64) ([]*entity.Event, error) {
	var results []*entity.Event

	err := e.db.Model(&entity.Event{}).
		Select("start_time, end_time").
		Where("start_time < ?", monthEnd).
		Where("end_time > ?", monthStart).
		Order("start_time asc").
		Find(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *DefaultEventRepository) FindBySourceRequestID(requestID int) (*entity.Event, error) {
	var event entity.Event
	err := e.db.Where("source_request_id = ?", requestID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

func (e *DefaultEventRepository) Save(event *entity.Event) error {
	return e.db.Save(event).Error
}

func (e *DefaultEventRepository) Delete(event *entity.Event) error {
	return e.db.Delete(event).Error
}
