package service

import (
	"time"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CallRequestRepository interface {
	Save(req *entity.CallRequest) error
	FindByID(id int) (*entity.CallRequest, error)
	FindForParticipant(userID int) ([]*entity.CallRequest, error)
	// UpdateIf applies updates only while the request is still active and
	// unchanged since it was read, reporting whether the swap won.
	UpdateIf(id int, expectedUpdatedAt int64, updates map[string]any) (bool, error)
}

type CallRequestRequest struct {
	RecipientEmail string   `json:"recipient_email" validate:"required,email"`
	Message        string   `json:"message" validate:"max=512"`
	ProposedTimes  []string `json:"proposed_times" validate:"omitempty,max=10,nodupes,iso8601"`
}

type ProposeTimesRequest struct {
	ProposedTimes []string `json:"proposed_times" validate:"required,min=1,max=10,nodupes,iso8601"`
}

type AcceptCallRequest struct {
	SelectedSlot string `json:"selected_slot" validate:"required,iso8601"`
}

type CallRequestResponse struct {
	ID            int      `json:"id"`
	RequesterID   int      `json:"requester_id"`
	RecipientID   int      `json:"recipient_id"`
	Message       *string  `json:"message,omitempty"`
	Status        string   `json:"status"`
	ProposedTimes []string `json:"proposed_times"`
	SelectedSlot  *string  `json:"selected_slot,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// AcceptCallResponse reports the committed acceptance plus the outcome of
// the follow-up materialization. MaterializationPending means the
// acceptance stuck but the calendar event needs a retry.
type AcceptCallResponse struct {
	Request                *CallRequestResponse `json:"request"`
	Event                  *EventResponse       `json:"event,omitempty"`
	MaterializationPending bool                 `json:"materialization_pending"`
}

type DefaultCallRequestService struct {
	CallRequestRepo CallRequestRepository
	EventRepo       EventRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
}

func NewCallRequestService(reqRepo CallRequestRepository, eventRepo EventRepository, userRepo UserRepository, validate *validator.Validate) *DefaultCallRequestService {
	return &DefaultCallRequestService{
		CallRequestRepo: reqRepo,
		EventRepo:       eventRepo,
		UserRepo:        userRepo,
		Validate:        validate,
	}
}

func (s *DefaultCallRequestService) CreateCallRequest(req *CallRequestRequest, subId string) (*CallRequestResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	recipient, err := s.UserRepo.FindByEmail(req.RecipientEmail)
	if err != nil {
		log.Errorf("failed to fetch recipient %s: %v", req.RecipientEmail, err)
		return nil, apierror.InternalServerError
	}
	if recipient == nil {
		return nil, apierror.RecipientUnknownError
	}
	if recipient.ID == caller.ID {
		return nil, apierror.SelfRequestError
	}

	var times []int64
	if len(req.ProposedTimes) > 0 {
		times, apierr = parseSlotTimes(req.ProposedTimes)
		if apierr != nil {
			return nil, apierr
		}
	} else {
		times = generateProposedTimes(time.Now().UTC(), defaultSlotCount)
	}

	now := utils.NowUTC()
	var message *string
	if req.Message != "" {
		message = &req.Message
	}

	request := &entity.CallRequest{
		RequesterID:   caller.ID,
		RecipientID:   recipient.ID,
		Message:       message,
		Status:        entity.CallStatusPending,
		ProposedTimes: times,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.CallRequestRepo.Save(request); err != nil {
		log.Errorf("failed to save call request: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCallRequestResponse(request), nil
}

func (s *DefaultCallRequestService) ProposeNewTimes(id int, req *ProposeTimesRequest, subId string) (*CallRequestResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if len(req.ProposedTimes) == 0 {
		return nil, apierror.EmptyTimesError
	}
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	times, apierr := parseSlotTimes(req.ProposedTimes)
	if apierr != nil {
		return nil, apierr
	}

	request, apierr := s.fetchRequest(id)
	if apierr != nil {
		return nil, apierr
	}
	if !request.Participant(caller.ID) {
		return nil, apierror.ForbiddenError
	}
	if !request.Status.Active() {
		return nil, apierror.InvalidStateError
	}

	now := utils.NowUTC()
	swapped, err := s.CallRequestRepo.UpdateIf(id, request.UpdatedAt, map[string]any{
		"status":         entity.CallStatusProposed,
		"proposed_times": entity.TimeSlice(times),
		"updated_at":     now,
	})
	if err != nil {
		log.Errorf("failed to propose new times for request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if !swapped {
		return nil, apierror.InvalidStateError
	}

	request.Status = entity.CallStatusProposed
	request.ProposedTimes = times
	request.UpdatedAt = now
	return toCallRequestResponse(request), nil
}

func (s *DefaultCallRequestService) AcceptCallRequest(id int, req *AcceptCallRequest, subId string) (*AcceptCallResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	slot, err := utils.FromEpoch(req.SelectedSlot)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	request, apierr := s.fetchRequest(id)
	if apierr != nil {
		return nil, apierr
	}
	if caller.ID != request.RecipientID {
		return nil, apierror.ForbiddenError
	}
	if !request.Status.Active() {
		return nil, apierror.InvalidStateError
	}
	if !request.ProposedTimes.Contains(slot) {
		return nil, apierror.InvalidSlotError
	}

	now := utils.NowUTC()
	swapped, err := s.CallRequestRepo.UpdateIf(id, request.UpdatedAt, map[string]any{
		"status":        entity.CallStatusAccepted,
		"selected_slot": slot,
		"updated_at":    now,
	})
	if err != nil {
		log.Errorf("failed to accept request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if !swapped {
		// A concurrent accept/decline won; this caller must not materialize.
		return nil, apierror.InvalidStateError
	}

	request.Status = entity.CallStatusAccepted
	request.SelectedSlot = &slot
	request.UpdatedAt = now

	resp := &AcceptCallResponse{Request: toCallRequestResponse(request)}

	// The acceptance is committed at this point. A materialization failure
	// is reported, not rolled back; the event can be retried later.
	event, err := materializeCallEvent(request, now)
	if err != nil {
		log.Errorf("failed to materialize event for request %d: %v", id, err)
		resp.MaterializationPending = true
		return resp, nil
	}
	if err := s.EventRepo.Save(event); err != nil {
		log.Errorf("failed to save materialized event for request %d: %v", id, err)
		resp.MaterializationPending = true
		return resp, nil
	}

	resp.Event = toEventResponse(event)
	return resp, nil
}

func (s *DefaultCallRequestService) DeclineCallRequest(id int, subId string) (*CallRequestResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	request, apierr := s.fetchRequest(id)
	if apierr != nil {
		return nil, apierr
	}
	if caller.ID != request.RecipientID {
		return nil, apierror.ForbiddenError
	}
	if !request.Status.Active() {
		return nil, apierror.InvalidStateError
	}

	now := utils.NowUTC()
	swapped, err := s.CallRequestRepo.UpdateIf(id, request.UpdatedAt, map[string]any{
		"status":     entity.CallStatusDeclined,
		"updated_at": now,
	})
	if err != nil {
		log.Errorf("failed to decline request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if !swapped {
		return nil, apierror.InvalidStateError
	}

	request.Status = entity.CallStatusDeclined
	request.UpdatedAt = now
	return toCallRequestResponse(request), nil
}

// MaterializeAcceptedRequest is the retryable second phase of acceptance.
// It is idempotent: if the event already exists it is returned as-is.
func (s *DefaultCallRequestService) MaterializeAcceptedRequest(id int, subId string) (*EventResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	request, apierr := s.fetchRequest(id)
	if apierr != nil {
		return nil, apierr
	}
	if !request.Participant(caller.ID) {
		return nil, apierror.ForbiddenError
	}
	if request.Status != entity.CallStatusAccepted || request.SelectedSlot == nil {
		return nil, apierror.NotAcceptedError
	}

	existing, err := s.EventRepo.FindBySourceRequestID(id)
	if err != nil {
		log.Errorf("failed to look up event for request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if existing != nil {
		return toEventResponse(existing), nil
	}

	now := utils.NowUTC()
	event, err := materializeCallEvent(request, now)
	if err != nil {
		// Unreachable given the status check above.
		log.Errorf("failed to materialize event for request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if err := s.EventRepo.Save(event); err != nil {
		// A concurrent retry may have hit the dedup index first.
		existing, lookupErr := s.EventRepo.FindBySourceRequestID(id)
		if lookupErr == nil && existing != nil {
			return toEventResponse(existing), nil
		}
		log.Errorf("failed to save materialized event for request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toEventResponse(event), nil
}

// GetCallRequests returns the caller's requests, newest first. box narrows
// the view: "pending" (still undecided), "sent" (caller is requester),
// "incoming" (caller is recipient), or "" for everything.
func (s *DefaultCallRequestService) GetCallRequests(subId, box string) ([]*CallRequestResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	requests, err := s.CallRequestRepo.FindForParticipant(caller.ID)
	if err != nil {
		log.Errorf("failed to fetch call requests for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	filtered := requests[:0:0]
	switch box {
	case "":
		filtered = requests
	case "pending":
		for _, r := range requests {
			if r.Status == entity.CallStatusPending {
				filtered = append(filtered, r)
			}
		}
	case "sent":
		for _, r := range requests {
			if r.RequesterID == caller.ID {
				filtered = append(filtered, r)
			}
		}
	case "incoming":
		for _, r := range requests {
			if r.RecipientID == caller.ID {
				filtered = append(filtered, r)
			}
		}
	default:
		return nil, apierror.NewSimple(400, "Unknown box, expected pending, sent or incoming")
	}

	response := make([]*CallRequestResponse, len(filtered))
	for i, r := range filtered {
		response[i] = toCallRequestResponse(r)
	}
	return response, nil
}

func (s *DefaultCallRequestService) fetchCaller(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := s.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	return caller, nil
}

func (s *DefaultCallRequestService) fetchRequest(id int) (*entity.CallRequest, apierror.ErrorResponse) {
	request, err := s.CallRequestRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch call request %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if request == nil {
		return nil, apierror.NotFoundError
	}
	return request, nil
}

// parseSlotTimes converts caller-supplied RFC3339 slots, holding them to
// the same rules as generated ones: exact hours, in the future.
func parseSlotTimes(raw []string) ([]int64, apierror.ErrorResponse) {
	times, err := utils.FromEpochMany(raw)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	for _, millis := range times {
		if !utils.IsHourExact(millis) {
			return nil, apierror.HourNotExactError
		}
		if !isFuture(millis) {
			return nil, apierror.TimeInPastError
		}
	}
	return times, nil
}

func isFuture(millis int64) bool {
	return millis > utils.NowUTC()
}

func toCallRequestResponse(r *entity.CallRequest) *CallRequestResponse {
	times := make([]string, len(r.ProposedTimes))
	for i, millis := range r.ProposedTimes {
		times[i] = utils.FormatEpoch(millis)
	}

	return &CallRequestResponse{
		ID:            r.ID,
		RequesterID:   r.RequesterID,
		RecipientID:   r.RecipientID,
		Message:       r.Message,
		Status:        string(r.Status),
		ProposedTimes: times,
		SelectedSlot:  utils.FormatEpochPtr(r.SelectedSlot),
		CreatedAt:     utils.FormatEpoch(r.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(r.UpdatedAt),
	}
}
