package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness only; it does not touch the database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK", "message": "Server is running"})
}
