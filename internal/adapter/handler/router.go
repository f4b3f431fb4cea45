package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tamirazrab/parley/internal/infrastructure/http/middleware"
	"github.com/tamirazrab/parley/pkg/config"
	"github.com/tamirazrab/parley/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	jwtManager     *jwt.Manager
	webhookHandler *Webhook
	meetingHandler *Meeting
	agentHandler   *Agent
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	webhookHandler *Webhook,
	meetingHandler *Meeting,
	agentHandler *Agent,
) *Router {
	return &Router{
		cfg:            cfg,
		jwtManager:     jwtManager,
		webhookHandler: webhookHandler,
		meetingHandler: meetingHandler,
		agentHandler:   agentHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	// Webhook deliveries carry their own signature auth
	e.POST("/webhook/stream", rt.webhookHandler.Receive)

	v1 := e.Group("/v1", middleware.EchoAuth(rt.jwtManager))
	rt.setupMeetingRoutes(v1)
	rt.setupAgentRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.GET("", rt.meetingHandler.List)
	meetings.POST("", rt.meetingHandler.Create)
	meetings.POST("/token", rt.meetingHandler.VideoToken)
	meetings.POST("/chat-token", rt.meetingHandler.ChatToken)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.PATCH("/:id", rt.meetingHandler.Update)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.POST("/:id/cancel", rt.meetingHandler.Cancel)
	meetings.GET("/:id/transcript", rt.meetingHandler.Transcript)
}

func (rt *Router) setupAgentRoutes(g *echo.Group) {
	agents := g.Group("/agents")

	agents.GET("", rt.agentHandler.List)
	agents.POST("", rt.agentHandler.Create)
	agents.GET("/:id", rt.agentHandler.Get)
	agents.PATCH("/:id", rt.agentHandler.Update)
	agents.DELETE("/:id", rt.agentHandler.Delete)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
