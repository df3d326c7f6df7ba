package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
)

const unexpectedMessage = "Something went wrong!"

// ErrorHandler renders every error as {"error": message}. Outside production
// 500s also carry the underlying error under "message", and constraint
// failures carry the driver text under "details".
func ErrorHandler(production bool, logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := render(err, production)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"err", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error("write error response", "err", werr)
		}
	}
}

func render(err error, production bool) (int, echo.Map) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.Status()
		body := echo.Map{"error": ae.Message}
		if production {
			return status, body
		}
		if ae.Details != "" {
			body["details"] = ae.Details
		}
		if status >= http.StatusInternalServerError && ae.Err != nil {
			body["message"] = ae.Err.Error()
		}
		return status, body
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = unexpectedMessage
		}
		return he.Code, echo.Map{"error": msg}
	}

	return http.StatusInternalServerError, echo.Map{"error": unexpectedMessage}
}
