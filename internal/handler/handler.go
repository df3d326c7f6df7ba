// Package handler binds HTTP requests to the service layer. Handlers never
// write error bodies themselves: they return errors and ErrorHandler renders
// them.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/lifecycle"
)

// DefaultTimeout bounds the store calls of one request when no timeout is
// configured.
const DefaultTimeout = 5 * time.Second

type base struct{ timeout time.Duration }

func newBase(timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return base{timeout: timeout}
}

// ctx derives the per-request deadline for service calls.
func (b base) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), b.timeout)
}

// bind decodes the JSON body into dst. Malformed bodies are a validation
// error, not a server error.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return &apperr.Error{Kind: apperr.Validation, Message: "Invalid request body", Err: err}
	}
	return nil
}

// statistics renders per-status counts as <status>_count keys plus the
// named total.
func statistics(st lifecycle.Stats, totalKey string) echo.Map {
	out := echo.Map{totalKey: st.Total}
	for status, n := range st.Counts {
		out[status+"_count"] = n
	}
	return out
}
