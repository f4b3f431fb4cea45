package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tamirazrab/parley/internal/adapter/dto/common"
	meetingDto "github.com/tamirazrab/parley/internal/adapter/dto/meeting"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	meetingUsecase "github.com/tamirazrab/parley/internal/usecase/meeting"
	"github.com/tamirazrab/parley/internal/usecase/transcript"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	meetingService *meetingUsecase.Service
	loader         *transcript.Loader
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService *meetingUsecase.Service, loader *transcript.Loader, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		loader:         loader,
		logger:         logger,
	}
}

// List handles GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	filters := repositories.MeetingFilters{
		UserID:   userID,
		Search:   req.Search,
		AgentID:  req.AgentID,
		Page:     common.ClampPage(req.Page),
		PageSize: common.ClampPageSize(req.PageSize),
	}
	if req.Status != nil {
		status := entities.MeetingStatus(*req.Status)
		filters.Status = &status
	}

	meetings, total, err := h.meetingService.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, meetingDto.MeetingListResponse{
		Meetings:   meetingDto.FromEntities(meetings),
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: common.TotalPages(total, filters.PageSize),
	})
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meeting, err := h.meetingService.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDto.FromEntity(meeting))
}

// Create handles POST /v1/meetings
func (h *Meeting) Create(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDto.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	meeting, err := h.meetingService.Create(c.Request().Context(), userID, meetingUsecase.CreateInput{
		Name:    req.Name,
		AgentID: req.AgentID,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, meetingDto.FromEntity(meeting))
}

// Update handles PATCH /v1/meetings/:id
func (h *Meeting) Update(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDto.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	meeting, err := h.meetingService.Update(c.Request().Context(), c.Param("id"), userID, meetingUsecase.UpdateInput{
		Name:    req.Name,
		AgentID: req.AgentID,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDto.FromEntity(meeting))
}

// Delete handles DELETE /v1/meetings/:id
func (h *Meeting) Delete(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	if err := h.meetingService.Remove(c.Request().Context(), c.Param("id"), userID); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/meetings/:id/cancel
func (h *Meeting) Cancel(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meeting, err := h.meetingService.Cancel(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDto.FromEntity(meeting))
}

// Transcript handles GET /v1/meetings/:id/transcript
func (h *Meeting) Transcript(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	entries, err := h.loader.Load(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// VideoToken handles POST /v1/meetings/token
func (h *Meeting) VideoToken(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	token, err := h.meetingService.VideoToken(c.Request().Context(), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, common.TokenResponse{Token: token})
}

// ChatToken handles POST /v1/meetings/chat-token
func (h *Meeting) ChatToken(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	token, err := h.meetingService.ChatToken(c.Request().Context(), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, common.TokenResponse{Token: token})
}
