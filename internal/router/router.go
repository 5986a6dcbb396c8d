package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/slotify/parking-api/internal/handler"    // import the handlers that implement business logic
	"github.com/slotify/parking-api/internal/middleware" // middleware for JWT authentication and role enforcement
	"github.com/slotify/parking-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probe this endpoint to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /api/auth — with the token-bucket limiter in front to slow down
// credential stuffing and reset-token guessing — while the protected
// /api/auth/me endpoint carries its own JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	// Staff entrance: ADMIN and SECURITY only.
	g.POST("/login", a.Login)
	// Employee entrance.
	g.POST("/signin", a.SignIn)
	// Employee self-registration; creates the user and its profile together.
	g.POST("/register", a.Register)
	// Password reset flow.  forgot-password answers identically whether
	// or not the email exists.
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Identity echo for any authenticated caller, regardless of role.
	e.GET("/api/auth/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleEmployee, model.RoleSecurity))
}
