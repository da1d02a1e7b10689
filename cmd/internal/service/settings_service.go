package service

import (
	"time"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// defaultReunionLead is how far out the countdown target lands when none
// has been set yet.
const defaultReunionLead = 7 * 24 * time.Hour

type SettingsRepository interface {
	Find() (*entity.AppSettings, error)
	Save(settings *entity.AppSettings) error
}

type ReunionRequest struct {
	ReunionAt string `json:"reunion_at" validate:"required,iso8601"`
}

type CountdownResponse struct {
	TargetAt string `json:"target_at"`
	Days     int64  `json:"days"`
	Hours    int64  `json:"hours"`
	Minutes  int64  `json:"minutes"`
	Seconds  int64  `json:"seconds"`
}

type DefaultSettingsService struct {
	SettingsRepo SettingsRepository
	Validate     *validator.Validate
}

func NewSettingsService(settingsRepo SettingsRepository, validate *validator.Validate) *DefaultSettingsService {
	return &DefaultSettingsService{SettingsRepo: settingsRepo, Validate: validate}
}

// GetCountdown reports the time left until the reunion date. A missing
// target defaults to a week out and is persisted so both users see the
// same clock.
func (s *DefaultSettingsService) GetCountdown() (*CountdownResponse, apierror.ErrorResponse) {
	settings, err := s.SettingsRepo.Find()
	if err != nil {
		log.Errorf("failed to fetch app settings: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	if settings == nil {
		settings = &entity.AppSettings{
			ReunionAt: now + defaultReunionLead.Milliseconds(),
			UpdatedAt: now,
		}
		if err := s.SettingsRepo.Save(settings); err != nil {
			// The computed countdown is still good; just note the miss.
			log.Errorf("failed to persist default reunion date: %v", err)
		}
	}

	return toCountdownResponse(settings.ReunionAt, now), nil
}

func (s *DefaultSettingsService) UpdateReunionDate(req *ReunionRequest) (*CountdownResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	target, err := utils.FromEpoch(req.ReunionAt)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	now := utils.NowUTC()
	settings, err := s.SettingsRepo.Find()
	if err != nil {
		log.Errorf("failed to fetch app settings: %v", err)
		return nil, apierror.InternalServerError
	}
	if settings == nil {
		settings = &entity.AppSettings{}
	}
	settings.ReunionAt = target
	settings.UpdatedAt = now

	if err := s.SettingsRepo.Save(settings); err != nil {
		log.Errorf("failed to save reunion date: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCountdownResponse(target, now), nil
}

// toCountdownResponse splits the remaining time into calendar-free parts,
// flooring at zero once the target has passed.
func toCountdownResponse(target, now int64) *CountdownResponse {
	remaining := target - now
	if remaining < 0 {
		remaining = 0
	}

	const (
		msPerSecond = int64(1000)
		msPerMinute = 60 * msPerSecond
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)

	return &CountdownResponse{
		TargetAt: utils.FormatEpoch(target),
		Days:     remaining / msPerDay,
		Hours:    (remaining % msPerDay) / msPerHour,
		Minutes:  (remaining % msPerHour) / msPerMinute,
		Seconds:  (remaining % msPerMinute) / msPerSecond,
	}
}
