package routes

import (
	"net/http"
	"strconv"
	"twoclouds/cmd/internal/service"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type LetterService interface {
	GetLetters(subId string) ([]*service.LetterResponse, apierror.ErrorResponse)
	SendLetter(req *service.LetterRequest, subId string) (*service.LetterResponse, apierror.ErrorResponse)
	OpenLetter(id int, subId string) (*service.LetterResponse, apierror.ErrorResponse)
	UnreadCount(subId string) (*service.UnreadCountResponse, apierror.ErrorResponse)
}

type DefaultLetterRoute struct {
	LetterService LetterService
}

func NewLetterDefault(letterService LetterService) *DefaultLetterRoute {
	return &DefaultLetterRoute{LetterService: letterService}
}

func (l *DefaultLetterRoute) GetLetters(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	letters, apierr := l.LetterService.GetLetters(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"letters": letters}
	return c.JSON(http.StatusOK, &resp)
}

func (l *DefaultLetterRoute) SendLetter(c echo.Context) error {
	var req service.LetterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	letter, apierr := l.LetterService.SendLetter(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, letter)
}

func (l *DefaultLetterRoute) OpenLetter(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	data, terr := utils.ParseTokenDataCtx(c)
	if terr != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	letter, apierr := l.LetterService.OpenLetter(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, letter)
}

func (l *DefaultLetterRoute) GetUnreadCount(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	count, apierr := l.LetterService.UnreadCount(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, count)
}
