package router

import (
	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/handler"
	"github.com/slotify/parking-api/internal/middleware"
	"github.com/slotify/parking-api/internal/model"
)

// RegisterSecurity registers the flag ledger routes.  Raising a flag is
// SECURITY-only; resolving is ADMIN-only; listing is shared with staff
// routes below, so each route carries its own role middleware instead
// of one group-wide policy.
func RegisterSecurity(e *echo.Echo, f *handler.FlagHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.POST("/api/flags", f.Create, auth,
		middleware.RequireRole(model.RoleSecurity))

	e.GET("/api/flags", f.List, auth,
		middleware.RequireRole(model.RoleAdmin, model.RoleSecurity))

	e.PATCH("/api/flags/:id/resolve", f.Resolve, auth,
		middleware.RequireRole(model.RoleAdmin))
}

// RegisterStaff registers the read endpoints shared by ADMIN and
// SECURITY: the slot registry listing and the daily report.  The
// registry listing tolerates short staleness and sits behind the Redis
// response cache; the report never does — it must reflect the ledger
// at the moment of the request.
func RegisterStaff(e *echo.Echo, s *handler.SlotHandler, r *handler.ReportHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleSecurity)

	e.GET("/api/slots", s.List, auth, staff, cache)
	e.GET("/api/reports/daily", r.Daily, auth, staff)
}
