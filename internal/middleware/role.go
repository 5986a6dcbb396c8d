package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/slotify/parking-api/internal/model" // model holds the closed role enumeration
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The decision is
// delegated to model.Role.Allowed so the policy stays a pure function
// independent of the framework.  It assumes JWTAuth already stored the
// role claim in the context under the key "role"; a missing or unknown
// role is rejected with 403 Forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get("role")
            raw, ok := v.(string)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            role, ok := model.ParseRole(raw)
            if !ok || !role.Allowed(roles...) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
