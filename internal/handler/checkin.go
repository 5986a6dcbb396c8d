package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slotify/parking-api/internal/queue"
	"github.com/slotify/parking-api/internal/repository"
	queue_publisher "github.com/slotify/parking-api/internal/service"
	"github.com/slotify/parking-api/internal/utils"
)

// CheckInHandler exposes the occupancy ledger to employees, plus the
// admin-only force checkout valve.
type CheckInHandler struct {
	CheckIns *repository.CheckInRepo
	Users    *repository.UserRepo
	Log      *zap.Logger
}

func NewCheckInHandler(ci *repository.CheckInRepo, u *repository.UserRepo, log *zap.Logger) *CheckInHandler {
	return &CheckInHandler{CheckIns: ci, Users: u, Log: log}
}

type checkInReq struct {
	SlotID uint64 `json:"slotId"`
}

type forceCheckoutReq struct {
	Password string `json:"password"`
}

// Available handles GET /api/slots/available — active slots with no
// open check-in.  Always computed live; this response must never be
// served from a cache.
func (h *CheckInHandler) Available(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.CheckIns.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, slots)
}

// CheckIn handles POST /api/checkins.  On success a checkin.recorded
// event goes to the broker; publish failures are logged and swallowed
// because the ledger row is already committed.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkInReq
	if err := c.Bind(&req); err != nil || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.CheckIns.CheckIn(ctx, userID, req.SlotID)
	if err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrSlotOccupied:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is already occupied"})
		case repository.ErrAlreadyCheckedIn:
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have an active check-in"})
		case repository.ErrProfileMissing:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no employee profile on record"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	pubCtx, pubCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer pubCancel()
	if err := queue_publisher.PublishCheckInRecorded(pubCtx, queue.CheckInRecordedEvent{
		CheckInID:   det.ID,
		UserID:      det.UserID,
		SlotID:      det.SlotID,
		SlotCode:    det.Slot.SlotCode,
		Level:       det.Slot.Level,
		VehicleID:   det.VehicleID,
		CheckedInAt: det.CheckedInAt.UTC().Format(time.RFC3339),
	}); err != nil {
		h.Log.Warn("publish checkin.recorded failed", zap.Uint64("check_in_id", det.ID), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, det)
}

// CheckOut handles PATCH /api/checkins/:id/checkout.  Only the owner
// of the record may close it, and only once.
func (h *CheckInHandler) CheckOut(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.CheckIns.CheckOut(ctx, userID, id)
	if err != nil {
		switch err {
		case repository.ErrCheckInNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "check-in record not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "this check-in belongs to another user"})
		case repository.ErrAlreadyCheckedOut:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already checked out"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Mine handles GET /api/checkins/mine — the caller's full check-in
// history, newest first.
func (h *CheckInHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.CheckIns.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// ForceCheckout handles POST /api/checkins/force-checkout.  The admin's
// JWT is not enough here: the request body must carry their current
// password, verified against the stored hash before anything moves.  A
// database with no open check-ins is a successful no-op with count 0.
func (h *CheckInHandler) ForceCheckout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req forceCheckoutReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password verification failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password verification failed"})
	}

	n, err := h.CheckIns.ForceCheckoutAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "force checkout failed"})
	}
	h.Log.Info("force checkout executed", zap.Uint64("admin_id", userID), zap.Int64("closed", n))
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}
