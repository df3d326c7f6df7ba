package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/middleware"
	"github.com/iliyamo/venue-booking-api/internal/model"
	"github.com/iliyamo/venue-booking-api/internal/service"
)

// AuthHandler serves administrator registration, login and identity.
type AuthHandler struct {
	base
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{base: newBase(timeout), svc: svc}
}

type adminBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func adminOf(a model.Admin) adminBody { return adminBody{ID: a.ID, Email: a.Email} }

// Register: POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	admin, err := h.svc.Register(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Superadmin created successfully",
		"admin":   adminOf(admin),
	})
}

// Login: POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	sess, err := h.svc.Login(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Login successful",
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
		"admin":      adminOf(sess.Admin),
	})
}

// Me: GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	admin, err := h.svc.Me(ctx, middleware.AdminFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"admin": adminOf(admin)})
}
