package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slotify/parking-api/internal/queue"
	"github.com/slotify/parking-api/internal/repository"
	queue_publisher "github.com/slotify/parking-api/internal/service"
)

// FlagHandler exposes the flag ledger.  SECURITY raises flags; ADMIN
// and SECURITY both list and resolve them.
type FlagHandler struct {
	Flags *repository.FlagRepo
	Log   *zap.Logger
}

func NewFlagHandler(f *repository.FlagRepo, log *zap.Logger) *FlagHandler {
	return &FlagHandler{Flags: f, Log: log}
}

type createFlagReq struct {
	SlotID    uint64 `json:"slotId"`
	VehicleID string `json:"vehicleId"`
}

// Create handles POST /api/flags.  A slot with a registered open
// check-in is not flaggable; the vehicle there is accounted for.
func (h *FlagHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFlagReq
	if err := c.Bind(&req); err != nil || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId required"})
	}
	req.VehicleID = strings.TrimSpace(req.VehicleID)
	if req.VehicleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicleId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Flags.Create(ctx, userID, req.SlotID, req.VehicleID)
	if err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrSlotHasCheckIn:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot has a registered check-in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flag failed"})
	}

	pubCtx, pubCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer pubCancel()
	if err := queue_publisher.PublishFlagRaised(pubCtx, queue.FlagRaisedEvent{
		FlagID:     det.ID,
		SlotID:     det.Slot.ID,
		SlotCode:   det.Slot.SlotCode,
		VehicleID:  det.VehicleID,
		ReportedBy: det.ReportedBy.ID,
		ReportedAt: det.ReportedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		h.Log.Warn("publish flag.raised failed", zap.Uint64("flag_id", det.ID), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, det)
}

// List handles GET /api/flags with an optional ?resolved=true|false
// filter.  Any other value for the parameter is a 400.
func (h *FlagHandler) List(c echo.Context) error {
	var resolved *bool
	switch v := c.QueryParam("resolved"); v {
	case "":
	case "true":
		t := true
		resolved = &t
	case "false":
		f := false
		resolved = &f
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resolved must be true or false"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx, resolved)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Resolve handles PATCH /api/flags/:id/resolve.  One-way transition; a
// second resolve is a 400.
func (h *FlagHandler) Resolve(c echo.Context) error {
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

	det, err := h.Flags.Resolve(ctx, id, userID)
	if err != nil {
		switch err {
		case repository.ErrFlagNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flag not found"})
		case repository.ErrFlagResolved:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "flag is already resolved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve flag failed"})
	}
	return c.JSON(http.StatusOK, det)
}
