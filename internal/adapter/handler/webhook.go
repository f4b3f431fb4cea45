package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/adapter/dto/common"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
)

// EventReconciler applies a verified provider event; it reports the event
// type and whether the event was recognized
type EventReconciler interface {
	Handle(ctx context.Context, body []byte) (eventType string, handled bool, err error)
}

// Webhook handles provider webhook deliveries
type Webhook struct {
	reconciler EventReconciler
	apiSecret  string
	logger     *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(reconciler EventReconciler, apiSecret string, logger *zap.Logger) *Webhook {
	return &Webhook{
		reconciler: reconciler,
		apiSecret:  apiSecret,
		logger:     logger,
	}
}

// Receive handles POST /webhook/stream. Verification runs over the raw
// request bytes before any parsing; a request failing verification touches
// no state.
func (h *Webhook) Receive(c echo.Context) error {
	signature := c.Request().Header.Get("x-signature")
	apiKey := c.Request().Header.Get("x-api-key")
	if signature == "" || apiKey == "" {
		return HandleError(c, h.logger, errors.ErrMissingWebhookHeaders())
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(c, h.logger, errors.ErrInternal(err))
	}

	if !stream.VerifySignature(h.apiSecret, body, signature) {
		return HandleError(c, h.logger, errors.ErrInvalidSignature())
	}

	eventType, handled, err := h.reconciler.Handle(c.Request().Context(), body)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	if !handled {
		return c.JSON(http.StatusOK, common.StatusResponse{Status: "ignored", EventType: eventType})
	}

	return c.JSON(http.StatusOK, common.StatusResponse{Status: "ok"})
}
