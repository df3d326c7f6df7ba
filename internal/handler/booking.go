package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/middleware"
	"github.com/iliyamo/venue-booking-api/internal/service"
)

// BookingHandler serves /api/bookings. Customer routes are public; the rest
// run behind the admin gate.
type BookingHandler struct {
	base
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService, timeout time.Duration) *BookingHandler {
	return &BookingHandler{base: newBase(timeout), svc: svc}
}

type statusReq struct {
	Status string `json:"status"`
}

type cancelReq struct {
	Email string `json:"email"`
}

// Create: POST /api/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	var req service.BookingInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.svc.Create(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Booking created successfully with pending status",
		"booking": b,
	})
}

// List: GET /api/bookings?status=&venue_id=&date=
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.svc.List(ctx, middleware.AdminFrom(c), service.BookingFilter{
		Status:  c.QueryParam("status"),
		VenueID: c.QueryParam("venue_id"),
		Date:    c.QueryParam("date"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": len(out)})
}

// ListByStatus: GET /api/bookings/status/:status
func (h *BookingHandler) ListByStatus(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	status := c.Param("status")
	out, err := h.svc.ListByStatus(ctx, middleware.AdminFrom(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "status": status, "count": len(out)})
}

// Stats: GET /api/bookings/stats/summary
func (h *BookingHandler) Stats(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	st, err := h.svc.Stats(ctx, middleware.AdminFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"statistics": statistics(st, "total_bookings")})
}

// ListByEmail: GET /api/bookings/customer/:email
func (h *BookingHandler) ListByEmail(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.svc.ListByEmail(ctx, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": len(out)})
}

// Get: GET /api/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.svc.Get(ctx, middleware.AdminFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// UpdateStatus: PATCH /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	prev, next, err := h.svc.UpdateStatus(ctx, middleware.AdminFrom(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":         fmt.Sprintf("Booking status updated from '%s' to '%s'", prev.Status, next.Status),
		"booking":         next,
		"previous_status": prev.Status,
		"new_status":      next.Status,
	})
}

// Update: PUT /api/bookings/:id
func (h *BookingHandler) Update(c echo.Context) error {
	var req service.BookingInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.svc.Update(ctx, middleware.AdminFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking updated successfully", "booking": b})
}

// Cancel: PATCH /api/bookings/cancel/:id
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.svc.Cancel(ctx, c.Param("id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully", "booking": b})
}

// Delete: DELETE /api/bookings/:id
func (h *BookingHandler) Delete(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.svc.Delete(ctx, middleware.AdminFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully", "deleted_booking": b})
}
