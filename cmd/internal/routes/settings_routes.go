package routes

import (
	"net/http"
	"twoclouds/cmd/internal/service"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SettingsService interface {
	GetCountdown() (*service.CountdownResponse, apierror.ErrorResponse)
	UpdateReunionDate(req *service.ReunionRequest) (*service.CountdownResponse, apierror.ErrorResponse)
}

type DefaultSettingsRoute struct {
	SettingsService SettingsService
}

func NewSettingsDefault(settingsService SettingsService) *DefaultSettingsRoute {
	return &DefaultSettingsRoute{SettingsService: settingsService}
}

func (s *DefaultSettingsRoute) GetCountdown(c echo.Context) error {
	countdown, apierr := s.SettingsService.GetCountdown()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, countdown)
}

func (s *DefaultSettingsRoute) UpdateReunionDate(c echo.Context) error {
	var req service.ReunionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	countdown, apierr := s.SettingsService.UpdateReunionDate(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, countdown)
}
