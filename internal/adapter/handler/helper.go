package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/adapter/dto/common"
	"github.com/tamirazrab/parley/internal/infrastructure/http/middleware"
)

// HandleError maps an application error onto the wire contract: AppError
// yields its own HTTP code with `{"error": message}` plus any details it
// carries, anything else is a plain 500. Internal causes are logged, never
// echoed to the caller.
func HandleError(c echo.Context, logger *zap.Logger, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		} else {
			logger.Debug("request rejected",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Message,
			Details: appErr.Details,
		})
	}

	logger.Error("unhandled error",
		zap.String("path", c.Request().URL.Path),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Internal server error"})
}

// authedUserID pulls the authenticated user id set by the auth middleware
func authedUserID(c echo.Context) (string, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return "", errors.ErrUnauthenticated()
	}
	return id, nil
}

// bindAndValidate binds the request into req and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidArgument("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}
