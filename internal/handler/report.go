package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/repository"
)

// ReportHandler computes occupancy reports on demand.  Nothing is
// precomputed or cached; the numbers must reflect the ledger at the
// moment of the request.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{Reports: r}
}

// reportSlot is one occupied slot in the daily report.  The slot code
// travels under "slotId" — the clients treat the human-readable code as
// the slot's identity in this view.
type reportSlot struct {
	SlotID        string `json:"slotId"`
	VehicleNumber string `json:"vehicleNumber"`
}

type dailyReport struct {
	GeneratedAt   time.Time    `json:"generatedAt"`
	TotalSlots    int          `json:"totalSlots"`
	UsedSlots     int          `json:"usedSlots"`
	EmptySlots    int          `json:"emptySlots"`
	OccupiedSlots []reportSlot `json:"occupiedSlots"`
}

// buildDailyReport assembles the report from the two inputs.  Kept pure
// so the arithmetic (usedSlots + emptySlots == totalSlots, never
// negative) is testable without a database.
func buildDailyReport(now time.Time, totalSlots int, occupied []repository.OccupiedSlot) dailyReport {
	slots := make([]reportSlot, 0, len(occupied))
	for _, o := range occupied {
		slots = append(slots, reportSlot{SlotID: o.SlotCode, VehicleNumber: o.VehicleID})
	}
	used := len(slots)
	empty := totalSlots - used
	if empty < 0 {
		empty = 0
	}
	return dailyReport{
		GeneratedAt:   now,
		TotalSlots:    totalSlots,
		UsedSlots:     used,
		EmptySlots:    empty,
		OccupiedSlots: slots,
	}
}

// Daily handles GET /api/reports/daily.  "Today" starts at local
// midnight of the server's timezone; check-ins opened before midnight
// and still open do not count toward today's usage.
func (h *ReportHandler) Daily(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total, err := h.Reports.CountActiveSlots(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	occupied, err := h.Reports.OpenCheckInsSince(ctx, midnight.UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, buildDailyReport(now, total, occupied))
}
