package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/middleware"
	"github.com/iliyamo/venue-booking-api/internal/service"
)

// VenueHandler serves /api/venues: public reads, admin writes.
type VenueHandler struct {
	base
	svc *service.VenueService
}

func NewVenueHandler(svc *service.VenueService, timeout time.Duration) *VenueHandler {
	return &VenueHandler{base: newBase(timeout), svc: svc}
}

func (h *VenueHandler) Create(c echo.Context) error {
	var req service.VenueInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	v, err := h.svc.Create(ctx, middleware.AdminFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Venue added successfully", "venue": v})
}

func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

func (h *VenueHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	v, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v})
}

func (h *VenueHandler) Update(c echo.Context) error {
	var req service.VenueInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	v, err := h.svc.Update(ctx, middleware.AdminFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Venue updated successfully", "venue": v})
}

func (h *VenueHandler) Delete(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if _, err := h.svc.Delete(ctx, middleware.AdminFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Venue deleted successfully"})
}

// TableTypeHandler serves /api/table-types with the same shape as venues.
type TableTypeHandler struct {
	base
	svc *service.TableTypeService
}

func NewTableTypeHandler(svc *service.TableTypeService, timeout time.Duration) *TableTypeHandler {
	return &TableTypeHandler{base: newBase(timeout), svc: svc}
}

func (h *TableTypeHandler) Create(c echo.Context) error {
	var req service.TableTypeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	tt, err := h.svc.Create(ctx, middleware.AdminFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Table type added successfully", "table_type": tt})
}

func (h *TableTypeHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"table_types": out})
}

func (h *TableTypeHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	tt, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"table_type": tt})
}

func (h *TableTypeHandler) Update(c echo.Context) error {
	var req service.TableTypeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	tt, err := h.svc.Update(ctx, middleware.AdminFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Table type updated successfully", "table_type": tt})
}

func (h *TableTypeHandler) Delete(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if _, err := h.svc.Delete(ctx, middleware.AdminFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Table type deleted successfully"})
}
