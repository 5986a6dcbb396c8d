package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slotify/parking-api/internal/repository"
	"github.com/slotify/parking-api/internal/utils"
)

// UserHandler covers the admin-side user administration surface.
type UserHandler struct {
	Users *repository.UserRepo
	Log   *zap.Logger
}

func NewUserHandler(u *repository.UserRepo, log *zap.Logger) *UserHandler {
	return &UserHandler{Users: u, Log: log}
}

type clearUsersReq struct {
	Password string `json:"password"`
}

// List handles GET /api/users — every account joined with its
// employee profile where one exists.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Users.ListWithProfiles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// ClearEmployees handles DELETE /api/users/employees.  Same re-auth
// rule as force checkout: the admin's current password travels in the
// body and must verify before the purge runs.  ADMIN and SECURITY
// accounts are never touched.
func (h *UserHandler) ClearEmployees(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req clearUsersReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password verification failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password verification failed"})
	}

	n, err := h.Users.ClearEmployees(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear users failed"})
	}
	h.Log.Info("employee purge executed", zap.Uint64("admin_id", userID), zap.Int("removed", n))
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}
