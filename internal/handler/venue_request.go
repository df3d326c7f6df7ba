package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/middleware"
	"github.com/iliyamo/venue-booking-api/internal/service"
)

// VenueRequestHandler serves /api/venue-requests. Only submission is public.
type VenueRequestHandler struct {
	base
	svc *service.VenueRequestService
}

func NewVenueRequestHandler(svc *service.VenueRequestService, timeout time.Duration) *VenueRequestHandler {
	return &VenueRequestHandler{base: newBase(timeout), svc: svc}
}

func (h *VenueRequestHandler) Create(c echo.Context) error {
	var req service.VenueRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.svc.Create(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Venue request submitted successfully", "request": r})
}

func (h *VenueRequestHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.svc.List(ctx, middleware.AdminFrom(c), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out, "total": len(out)})
}

func (h *VenueRequestHandler) ListByStatus(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	status := c.Param("status")
	out, err := h.svc.ListByStatus(ctx, middleware.AdminFrom(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out, "status": status, "count": len(out)})
}

func (h *VenueRequestHandler) Stats(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	st, err := h.svc.Stats(ctx, middleware.AdminFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"statistics": statistics(st, "total_requests")})
}

func (h *VenueRequestHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.svc.Get(ctx, middleware.AdminFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"request": r})
}

func (h *VenueRequestHandler) UpdateStatus(c echo.Context) error {
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
		"message":         "Request status updated",
		"request":         next,
		"previous_status": prev.Status,
		"new_status":      next.Status,
	})
}

func (h *VenueRequestHandler) Update(c echo.Context) error {
	var req service.VenueRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.svc.Update(ctx, middleware.AdminFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Venue request updated successfully", "request": r})
}

func (h *VenueRequestHandler) Delete(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.svc.Delete(ctx, middleware.AdminFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Venue request deleted successfully", "deleted_request": r})
}
