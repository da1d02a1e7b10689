package service

import (
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type EventRepository interface {
	Save(event *entity.Event) error
	FindByID(id int) (*entity.Event, error)
	FindVisibleTo(userID int) ([]*entity.Event, error)
	FindMonthEvents(monthStart, monthEnd int64) ([]*entity.Event, error)
	FindBySourceRequestID(requestID int) (*entity.Event, error)
	Delete(event *entity.Event) error
}

type EventRequest struct {
	Title       string `json:"title" validate:"required,max=128"`
	Description string `json:"description" validate:"max=2048"`
	StartTime   string `json:"start_time" validate:"required,iso8601"`
	EndTime     string `json:"end_time" validate:"required,iso8601"`
	IsShared    bool   `json:"is_shared"`
}

type EventResponse struct {
	ID              int     `json:"id"`
	OwnerID         int     `json:"owner_id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	IsShared        bool    `json:"is_shared"`
	SourceRequestID *int    `json:"source_request_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ScheduledDay struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CalendarResponse struct {
	ScheduledDays []*ScheduledDay `json:"scheduled_days"`
}

type DefaultEventService struct {
	EventRepo EventRepository
	UserRepo  UserRepository
	Validate  *validator.Validate
}

func NewEventService(eventRepo EventRepository, userRepo UserRepository, validate *validator.Validate) *DefaultEventService {
	return &DefaultEventService{EventRepo: eventRepo, UserRepo: userRepo, Validate: validate}
}

// GetEvents returns the events visible to the caller: their own plus every
// shared one, soonest first.
func (e *DefaultEventService) GetEvents(subId string) ([]*EventResponse, apierror.ErrorResponse) {
	caller, apierr := e.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	events, err := e.EventRepo.FindVisibleTo(caller.ID)
	if err != nil {
		log.Errorf("failed to find events for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*EventResponse, len(events))
	for i, event := range events {
		response[i] = toEventResponse(event)
	}
	return response, nil
}

func (e *DefaultEventService) CreateEvent(req *EventRequest, subId string) (*EventResponse, apierror.ErrorResponse) {
	caller, apierr := e.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := e.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	start, end, apierr := parseEventWindow(req)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	event := &entity.Event{
		OwnerID:     caller.ID,
		Title:       req.Title,
		Description: optionalString(req.Description),
		StartTime:   start,
		EndTime:     end,
		IsShared:    req.IsShared,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.EventRepo.Save(event); err != nil {
		log.Errorf("failed to save event: %v", err)
		return nil, apierror.InternalServerError
	}
	return toEventResponse(event), nil
}

// UpdateEvent replaces an event's details. Only the owner may update; a
// mismatch looks the same as a missing event.
func (e *DefaultEventService) UpdateEvent(id int, req *EventRequest, subId string) (*EventResponse, apierror.ErrorResponse) {
	caller, apierr := e.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := e.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	start, end, apierr := parseEventWindow(req)
	if apierr != nil {
		return nil, apierr
	}

	event, err := e.EventRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch event by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if event == nil || event.OwnerID != caller.ID {
		return nil, apierror.NotFoundError
	}

	event.Title = req.Title
	event.Description = optionalString(req.Description)
	event.StartTime = start
	event.EndTime = end
	event.IsShared = req.IsShared
	event.UpdatedAt = utils.NowUTC()

	if err := e.EventRepo.Save(event); err != nil {
		log.Errorf("failed to update event %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toEventResponse(event), nil
}

func (e *DefaultEventService) DeleteEvent(id int, subId string) apierror.ErrorResponse {
	caller, apierr := e.fetchCaller(subId)
	if apierr != nil {
		return apierr
	}

	event, err := e.EventRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch event by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	if event == nil || event.OwnerID != caller.ID {
		return apierror.NotFoundError
	}

	if err := e.EventRepo.Delete(event); err != nil {
		log.Errorf("failed to delete event by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (e *DefaultEventService) GetCalendar(monthStart, monthEnd int64) (*CalendarResponse, apierror.ErrorResponse) {
	events, err := e.EventRepo.FindMonthEvents(monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to fetch events for window [%d - %d]: %v", monthStart, monthEnd, err)
		return nil, apierror.InternalServerError
	}

	schedDays := make([]*ScheduledDay, len(events))
	for i, event := range events {
		schedDays[i] = toScheduledDay(event)
	}

	calendar := &CalendarResponse{
		ScheduledDays: schedDays,
	}
	return calendar, nil
}

func (e *DefaultEventService) fetchCaller(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := e.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	return caller, nil
}

func parseEventWindow(req *EventRequest) (int64, int64, apierror.ErrorResponse) {
	start, err := utils.FromEpoch(req.StartTime)
	if err != nil {
		return 0, 0, apierror.MalformedBodyError
	}
	end, err := utils.FromEpoch(req.EndTime)
	if err != nil {
		return 0, 0, apierror.MalformedBodyError
	}
	if end <= start {
		return 0, 0, apierror.EndBeforeStartError
	}
	return start, end, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toScheduledDay(event *entity.Event) *ScheduledDay {
	return &ScheduledDay{
		StartTime: utils.FormatEpoch(event.StartTime),
		EndTime:   utils.FormatEpoch(event.EndTime),
	}
}

func toEventResponse(event *entity.Event) *EventResponse {
	return &EventResponse{
		ID:              event.ID,
		OwnerID:         event.OwnerID,
		Title:           event.Title,
		Description:     event.Description,
		StartTime:       utils.FormatEpoch(event.StartTime),
		EndTime:         utils.FormatEpoch(event.EndTime),
		IsShared:        event.IsShared,
		SourceRequestID: event.SourceRequestID,
		CreatedAt:       utils.FormatEpoch(event.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(event.UpdatedAt),
	}
}
