package repository

import (
	"errors"
	"twoclouds/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultLetterRepository struct {
	db *gorm.DB
}

func NewLetterRepository(db *gorm.DB) *DefaultLetterRepository {
	return &DefaultLetterRepository{db: db}
}

func (l *DefaultLetterRepository) FindByID(id int) (*entity.Letter, error) {
	var letter entity.Letter
	err := l.db.First(&letter, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &letter, err
}

func (l *DefaultLetterRepository) FindForParticipant(userID int) ([]*entity.Letter, error) {
	var letters []*entity.Letter
	err := l.db.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&letters).Error
	return letters, err
}

// MarkOpened stamps the letter as opened, once. The conditional update makes
// the first open win; later calls affect zero rows and report false.
func (l *DefaultLetterRepository) MarkOpened(id, recipientID int, openedAt int64) (bool, error) {
	res := l.db.Model(&entity.Letter{}).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		Where("opened_at IS NULL").
		Updates(map[string]any{"opened_at": openedAt, "updated_at": openedAt})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *DefaultLetterRepository) CountUnread(recipientID int) (int64, error) {
	var count int64
	err := l.db.Model(&entity.Letter{}).
		Where("recipient_id = ?", recipientID).
		Where("opened_at IS NULL").
		Count(&count).Error
	return count, err
}

func (l *DefaultLetterRepository) Save(letter *entity.Letter) error {
	return l.db.Save(letter).Error
}
