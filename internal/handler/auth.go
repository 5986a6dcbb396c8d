package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/config"
	"github.com/slotify/parking-api/internal/model"
	"github.com/slotify/parking-api/internal/repository"
	"github.com/slotify/parking-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	EmployeeID  string `json:"employeeId"`
	VehicleID   string `json:"vehicleId"`
	PhoneNumber string `json:"phoneNumber"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type authResp struct {
	Token  string     `json:"token"`
	Role   model.Role `json:"role"`
	UserID uint64     `json:"userId"`
}

// Login handles POST /api/auth/login — the staff entrance.  Only ADMIN
// and SECURITY accounts may use it; an employee with valid credentials
// is turned away with 403 so the clients keep their flows separate.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, model.RoleAdmin, model.RoleSecurity)
}

// SignIn handles POST /api/auth/signin — the employee entrance.
func (h *AuthHandler) SignIn(c echo.Context) error {
	return h.login(c, model.RoleEmployee)
}

// login verifies credentials and issues a token when the account's role
// is in the allowed set.  Unknown email and wrong password produce the
// same response so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) login(c echo.Context, allowed ...model.Role) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if noRows(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}
	if !u.Role.Allowed(allowed...) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "this login endpoint is not available for your account type"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{Token: access.Token, Role: u.Role, UserID: u.ID})
}

// Register handles POST /api/auth/register.  Creates an EMPLOYEE user
// and its profile in one transaction and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.VehicleID = strings.TrimSpace(req.VehicleID)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	if req.EmployeeID == "" || req.VehicleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employeeId/vehicleId required"})
	}
	if n := len(req.PhoneNumber); n < 10 || n > 15 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phoneNumber must be 10-15 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.RegisterEmployee(ctx, req.Email, req.Password, h.Cfg.BcryptCost,
		req.EmployeeID, req.VehicleID, req.PhoneNumber)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email is already registered"})
		case repository.ErrEmployeeIDExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "employee id is already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, string(model.RoleEmployee), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, authResp{Token: access.Token, Role: model.RoleEmployee, UserID: uid})
}

// ForgotPassword handles POST /api/auth/forgot-password.  The response
// is identical whether or not the email exists — this anti-enumeration
// behavior is load-bearing, not an oversight.  In dev environments the
// raw token is included so the flow can be exercised without SMTP.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	const msg = "If that email exists, a reset link has been sent."

	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if noRows(err) {
			return c.JSON(http.StatusOK, echo.Map{"message": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reset, err := utils.NewResetToken(h.Cfg.ResetTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	if err := h.Tokens.StoreReset(ctx, u.ID, utils.HashResetRaw(reset.Raw), reset.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save token failed"})
	}

	if h.Cfg.IsDev() {
		return c.JSON(http.StatusOK, echo.Map{"message": msg, "resetToken": reset.Raw})
	}
	// TODO: send the token over SMTP once the mail relay is provisioned.
	log.Printf("[password reset] token issued for %s", email)
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// ResetPassword handles POST /api/auth/reset-password.  Consuming the
// token and replacing the password hash commit together; a used or
// expired token is a 400 with a message saying which.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "newPassword must be at least 6 characters"})
	}

	newHash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashResetRaw(strings.TrimSpace(req.Token))
	if err := h.Tokens.ConsumeReset(ctx, h.Users, hash, newHash); err != nil {
		switch err {
		case repository.ErrTokenInvalid, repository.ErrTokenUsed, repository.ErrTokenExpired:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
