package repository

import (
	"errors"
	"twoclouds/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// activeStatuses are the states a call request can still transition from.
var activeStatuses = []entity.CallStatus{entity.CallStatusPending, entity.CallStatusProposed}

type DefaultCallRequestRepository struct {
	db *gorm.DB
}

func NewCallRequestRepository(db *gorm.DB) *DefaultCallRequestRepository {
	return &DefaultCallRequestRepository{db: db}
}

func (c *DefaultCallRequestRepository) FindByID(id int) (*entity.CallRequest, error) {
	var req entity.CallRequest
	err := c.db.First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &req, err
}

func (c *DefaultCallRequestRepository) FindForParticipant(userID int) ([]*entity.CallRequest, error) {
	var reqs []*entity.CallRequest
	err := c.db.
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

func (c *DefaultCallRequestRepository) Save(req *entity.CallRequest) error {
	return c.db.Save(req).Error
}

// UpdateIf applies updates to a request only if it is still in an active
// status and has not been touched since the caller read it (compare-and-swap
// emulated with a conditional UPDATE; SQLite has no native one). It reports
// whether the swap won.
func (c *DefaultCallRequestRepository) UpdateIf(id int, expectedUpdatedAt int64, updates map[string]any) (bool, error) {
	res := c.db.Model(&entity.CallRequest{}).
		Where("id = ?", id).
		Where("status IN ?", activeStatuses).
		Where("updated_at = ?", expectedUpdatedAt).
		Updates(updates)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
