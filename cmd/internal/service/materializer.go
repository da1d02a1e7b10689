package service

import (
	"errors"
	"time"
	"twoclouds/cmd/internal/domain/entity"
)

// callDuration is the fixed length of a materialized call event.
const callDuration = time.Hour

const (
	defaultCallTitle       = "Video Call"
	defaultCallDescription = "Scheduled video call"
)

var errNotMaterializable = errors.New("request is not accepted or has no selected slot")

// materializeCallEvent derives the shared calendar event for an accepted
// call request. It only builds the event; persisting it is the caller's
// job, and the event's SourceRequestID unique index keeps a retried
// materialization from producing a second one.
func materializeCallEvent(req *entity.CallRequest, now int64) (*entity.Event, error) {
	if req.Status != entity.CallStatusAccepted || req.SelectedSlot == nil {
		return nil, errNotMaterializable
	}

	description := defaultCallDescription
	if req.Message != nil && *req.Message != "" {
		description = *req.Message
	}

	sourceID := req.ID
	return &entity.Event{
		OwnerID:         req.RequesterID,
		Title:           defaultCallTitle,
		Description:     &description,
		StartTime:       *req.SelectedSlot,
		EndTime:         *req.SelectedSlot + callDuration.Milliseconds(),
		IsShared:        true,
		SourceRequestID: &sourceID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
