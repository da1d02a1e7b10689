package service

import (
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type LetterRepository interface {
	Save(letter *entity.Letter) error
	FindByID(id int) (*entity.Letter, error)
	FindForParticipant(userID int) ([]*entity.Letter, error)
	MarkOpened(id, recipientID int, openedAt int64) (bool, error)
	CountUnread(recipientID int) (int64, error)
}

type LetterRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Subject        string `json:"subject" validate:"required,max=200"`
	Content        string `json:"content" validate:"required,max=10000"`
}

type LetterResponse struct {
	ID          int     `json:"id"`
	SenderID    int     `json:"sender_id"`
	RecipientID int     `json:"recipient_id"`
	Subject     string  `json:"subject"`
	Content     string  `json:"content"`
	OpenedAt    *string `json:"opened_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type DefaultLetterService struct {
	LetterRepo LetterRepository
	UserRepo   UserRepository
	Validate   *validator.Validate
}

func NewLetterService(letterRepo LetterRepository, userRepo UserRepository, validate *validator.Validate) *DefaultLetterService {
	return &DefaultLetterService{LetterRepo: letterRepo, UserRepo: userRepo, Validate: validate}
}

func (l *DefaultLetterService) GetLetters(subId string) ([]*LetterResponse, apierror.ErrorResponse) {
	caller, apierr := l.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	letters, err := l.LetterRepo.FindForParticipant(caller.ID)
	if err != nil {
		log.Errorf("failed to fetch letters for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*LetterResponse, len(letters))
	for i, letter := range letters {
		response[i] = toLetterResponse(letter)
	}
	return response, nil
}

func (l *DefaultLetterService) SendLetter(req *LetterRequest, subId string) (*LetterResponse, apierror.ErrorResponse) {
	caller, apierr := l.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := l.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	recipient, err := l.UserRepo.FindByEmail(req.RecipientEmail)
	if err != nil {
		log.Errorf("failed to fetch recipient %s: %v", req.RecipientEmail, err)
		return nil, apierror.InternalServerError
	}
	if recipient == nil {
		return nil, apierror.RecipientUnknownError
	}

	now := utils.NowUTC()
	letter := &entity.Letter{
		SenderID:    caller.ID,
		RecipientID: recipient.ID,
		Subject:     req.Subject,
		Content:     req.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.LetterRepo.Save(letter); err != nil {
		log.Errorf("failed to save letter: %v", err)
		return nil, apierror.InternalServerError
	}
	return toLetterResponse(letter), nil
}

// OpenLetter stamps a letter as opened. Only the recipient may open it, and
// only the first open sets the timestamp; opening an already-open letter is
// a harmless no-op.
func (l *DefaultLetterService) OpenLetter(id int, subId string) (*LetterResponse, apierror.ErrorResponse) {
	caller, apierr := l.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	letter, err := l.LetterRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch letter %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if letter == nil {
		return nil, apierror.NotFoundError
	}
	if letter.RecipientID != caller.ID {
		return nil, apierror.ForbiddenError
	}

	if letter.OpenedAt == nil {
		now := utils.NowUTC()
		stamped, err := l.LetterRepo.MarkOpened(id, caller.ID, now)
		if err != nil {
			log.Errorf("failed to mark letter %d as opened: %v", id, err)
			return nil, apierror.InternalServerError
		}
		if stamped {
			letter.OpenedAt = &now
			letter.UpdatedAt = now
		}
	}
	return toLetterResponse(letter), nil
}

func (l *DefaultLetterService) UnreadCount(subId string) (*UnreadCountResponse, apierror.ErrorResponse) {
	caller, apierr := l.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	count, err := l.LetterRepo.CountUnread(caller.ID)
	if err != nil {
		log.Errorf("failed to count unread letters for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}
	return &UnreadCountResponse{Unread: count}, nil
}

func (l *DefaultLetterService) fetchCaller(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := l.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	return caller, nil
}

func toLetterResponse(letter *entity.Letter) *LetterResponse {
	return &LetterResponse{
		ID:          letter.ID,
		SenderID:    letter.SenderID,
		RecipientID: letter.RecipientID,
		Subject:     letter.Subject,
		Content:     letter.Content,
		OpenedAt:    utils.FormatEpochPtr(letter.OpenedAt),
		CreatedAt:   utils.FormatEpoch(letter.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(letter.UpdatedAt),
	}
}
