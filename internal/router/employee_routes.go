package router

import (
	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/handler"
	"github.com/slotify/parking-api/internal/middleware"
	"github.com/slotify/parking-api/internal/model"
)

// RegisterEmployee registers employee-scoped endpoints under /api.  All
// routes require a valid JWT and the EMPLOYEE role.  Employees can view
// available slots, check in, check out and list their own history.
func RegisterEmployee(e *echo.Echo, ci *handler.CheckInHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee),
	)

	// Availability is always computed live from the ledger; never mount
	// the response cache on this route.
	g.GET("/slots/available", ci.Available)

	g.POST("/checkins", ci.CheckIn)
	g.PATCH("/checkins/:id/checkout", ci.CheckOut)
	g.GET("/checkins/mine", ci.Mine)
}
