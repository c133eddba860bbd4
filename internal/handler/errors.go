package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "modion/internal/errors"
)

// mapError converts a service error into an echo.HTTPError carrying an
// ErrorResponse. Unclassified errors get fallbackStatus and fallbackMessage.
func mapError(c echo.Context, err error, fallbackStatus int, fallbackMessage string) error {
	httpErr := apperrors.MapErrorToHTTP(err, fallbackStatus, fallbackMessage)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.Error(fallbackMessage, "error", err, "path", c.Path(), "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Message: message})
}
