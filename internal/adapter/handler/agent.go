package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	agentDto "github.com/tamirazrab/parley/internal/adapter/dto/agent"
	"github.com/tamirazrab/parley/internal/adapter/dto/common"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	agentUsecase "github.com/tamirazrab/parley/internal/usecase/agent"
)

// Agent handles agent-related HTTP requests
type Agent struct {
	agentService *agentUsecase.Service
	logger       *zap.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentService *agentUsecase.Service, logger *zap.Logger) *Agent {
	return &Agent{agentService: agentService, logger: logger}
}

// List handles GET /v1/agents
func (h *Agent) List(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req agentDto.ListAgentsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	filters := repositories.AgentFilters{
		UserID:   userID,
		Search:   req.Search,
		Page:     common.ClampPage(req.Page),
		PageSize: common.ClampPageSize(req.PageSize),
	}

	agents, total, err := h.agentService.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, agentDto.AgentListResponse{
		Agents:     agentDto.FromEntitiesWithCount(agents),
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: common.TotalPages(total, filters.PageSize),
	})
}

// Get handles GET /v1/agents/:id
func (h *Agent) Get(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	agent, err := h.agentService.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, agentDto.FromEntityWithCount(agent))
}

// Create handles POST /v1/agents
func (h *Agent) Create(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req agentDto.CreateAgentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	agent, err := h.agentService.Create(c.Request().Context(), userID, agentUsecase.CreateInput{
		Name:         req.Name,
		Instructions: req.Instructions,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, agentDto.FromEntity(agent))
}

// Update handles PATCH /v1/agents/:id
func (h *Agent) Update(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req agentDto.UpdateAgentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(c, h.logger, err)
	}

	agent, err := h.agentService.Update(c.Request().Context(), c.Param("id"), userID, agentUsecase.UpdateInput{
		Name:         req.Name,
		Instructions: req.Instructions,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, agentDto.FromEntityWithCount(agent))
}

// Delete handles DELETE /v1/agents/:id
func (h *Agent) Delete(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	if err := h.agentService.Remove(c.Request().Context(), c.Param("id"), userID); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
