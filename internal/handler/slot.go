package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/model"
	"github.com/slotify/parking-api/internal/repository"
	"github.com/slotify/parking-api/internal/utils"
)

// SlotHandler exposes the slot registry to admins.  Employees never see
// these routes; they consume availability through the check-in handler.
type SlotHandler struct {
	Slots *repository.SlotRepo
}

func NewSlotHandler(s *repository.SlotRepo) *SlotHandler {
	return &SlotHandler{Slots: s}
}

type createSlotReq struct {
	SlotCode string `json:"slotCode"`
	Level    uint32 `json:"level"`
	Type     string `json:"type"`
}

type updateSlotReq struct {
	SlotCode *string `json:"slotCode"`
	Level    *uint32 `json:"level"`
	Type     *string `json:"type"`
}

func validSlotType(t string) bool {
	return t == model.SlotTypeTwoWheeler || t == model.SlotTypeFourWheeler
}

// List handles GET /api/slots — every active slot.  Soft-deleted rows
// never appear here.
func (h *SlotHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Slots.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, slots)
}

// Create handles POST /api/slots.  Recreating a soft-deleted code
// reactivates the old row with the new level and type; the response is
// 201 either way.
func (h *SlotHandler) Create(c echo.Context) error {
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SlotCode = strings.ToUpper(strings.TrimSpace(req.SlotCode))
	req.Type = strings.TrimSpace(req.Type)
	if !utils.ValidSlotCode(req.SlotCode) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotCode must be one uppercase letter followed by four digits"})
	}
	if req.Level == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "level must be a positive integer"})
	}
	if !validSlotType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be TWO_WHEELER or FOUR_WHEELER"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot, err := h.Slots.Create(ctx, req.SlotCode, req.Level, req.Type)
	if err != nil {
		if err == repository.ErrSlotCodeExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	return c.JSON(http.StatusCreated, slot)
}

// Update handles PUT /api/slots/:id.  All fields optional; absent
// fields keep their current value.
func (h *SlotHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	upd := repository.SlotUpdate{Level: req.Level}
	if req.SlotCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.SlotCode))
		if !utils.ValidSlotCode(code) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotCode must be one uppercase letter followed by four digits"})
		}
		upd.SlotCode = &code
	}
	if req.Level != nil && *req.Level == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "level must be a positive integer"})
	}
	if req.Type != nil {
		t := strings.TrimSpace(*req.Type)
		if !validSlotType(t) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be TWO_WHEELER or FOUR_WHEELER"})
		}
		upd.Type = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot, err := h.Slots.Update(ctx, id, upd)
	if err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrSlotCodeExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update slot failed"})
	}
	return c.JSON(http.StatusOK, slot)
}

// Delete handles DELETE /api/slots/:id — a soft delete.  A slot with a
// vehicle in it cannot be removed.  Success is an empty 204.
func (h *SlotHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Slots.SoftDelete(ctx, id); err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrSlotHasCheckIn:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot has an active check-in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slot failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
