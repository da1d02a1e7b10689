package routes

import (
	"net/http"
	"strconv"
	"twoclouds/cmd/internal/service"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CallRequestService interface {
	CreateCallRequest(req *service.CallRequestRequest, subId string) (*service.CallRequestResponse, apierror.ErrorResponse)
	GetCallRequests(subId, box string) ([]*service.CallRequestResponse, apierror.ErrorResponse)
	ProposeNewTimes(id int, req *service.ProposeTimesRequest, subId string) (*service.CallRequestResponse, apierror.ErrorResponse)
	AcceptCallRequest(id int, req *service.AcceptCallRequest, subId string) (*service.AcceptCallResponse, apierror.ErrorResponse)
	DeclineCallRequest(id int, subId string) (*service.CallRequestResponse, apierror.ErrorResponse)
	MaterializeAcceptedRequest(id int, subId string) (*service.EventResponse, apierror.ErrorResponse)
}

type DefaultCallRequestRoute struct {
	CallRequestService CallRequestService
}

func NewCallRequestDefault(callService CallRequestService) *DefaultCallRequestRoute {
	return &DefaultCallRequestRoute{CallRequestService: callService}
}

func (r *DefaultCallRequestRoute) GetCallRequests(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	requests, apierr := r.CallRequestService.GetCallRequests(data.Sub, c.QueryParam("box"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"call_requests": requests}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCallRequestRoute) CreateCallRequest(c echo.Context) error {
	var req service.CallRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	request, apierr := r.CallRequestService.CreateCallRequest(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, request)
}

func (r *DefaultCallRequestRoute) ProposeNewTimes(c echo.Context) error {
	id, apierr := requestIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.ProposeTimesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	request, serr := r.CallRequestService.ProposeNewTimes(id, &req, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, request)
}

func (r *DefaultCallRequestRoute) AcceptCallRequest(c echo.Context) error {
	id, apierr := requestIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AcceptCallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	accepted, serr := r.CallRequestService.AcceptCallRequest(id, &req, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}

	// Partial success (acceptance committed, event pending) still answers
	// 200; the flag tells the UI to offer a retry.
	return c.JSON(http.StatusOK, accepted)
}

func (r *DefaultCallRequestRoute) DeclineCallRequest(c echo.Context) error {
	id, apierr := requestIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	request, serr := r.CallRequestService.DeclineCallRequest(id, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, request)
}

func (r *DefaultCallRequestRoute) MaterializeCallRequest(c echo.Context) error {
	id, apierr := requestIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	event, serr := r.CallRequestService.MaterializeAcceptedRequest(id, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, event)
}

func requestIDParam(c echo.Context) (int, apierror.ErrorResponse) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apierror.NewSimple(400, "ID is not a number")
	}
	return id, nil
}
