package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/handler"    // admin handlers
	"github.com/slotify/parking-api/internal/middleware" // JWT + role middlewares
	"github.com/slotify/parking-api/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /api.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, s *handler.SlotHandler, ci *handler.CheckInHandler, u *handler.UserHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Slot registry ----
	g.POST("/slots", s.Create)
	g.PUT("/slots/:id", s.Update)
	g.PATCH("/slots/:id", s.Update) // allow partial updates via PATCH as well
	g.DELETE("/slots/:id", s.Delete)

	// ---- Emergency valves (both re-authenticate via password in body) ----
	g.POST("/checkins/force-checkout", ci.ForceCheckout)
	g.DELETE("/users/employees", u.ClearEmployees)

	// ---- User administration ----
	g.GET("/users", u.List)
}
