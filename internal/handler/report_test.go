package handler

import (
	"testing"
	"time"

	"github.com/slotify/parking-api/internal/repository"
)

func TestBuildDailyReportArithmetic(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	occupied := []repository.OccupiedSlot{
		{SlotCode: "C2001", VehicleID: "KA01AB1234"},
		{SlotCode: "M1003", VehicleID: "KA05XY9999"},
	}

	rep := buildDailyReport(now, 10, occupied)

	if rep.GeneratedAt != now {
		t.Errorf("generatedAt = %v, want %v", rep.GeneratedAt, now)
	}
	if rep.TotalSlots != 10 || rep.UsedSlots != 2 || rep.EmptySlots != 8 {
		t.Errorf("totals = (%d,%d,%d), want (10,2,8)", rep.TotalSlots, rep.UsedSlots, rep.EmptySlots)
	}
	if rep.UsedSlots+rep.EmptySlots != rep.TotalSlots {
		t.Error("usedSlots + emptySlots must equal totalSlots")
	}
	if len(rep.OccupiedSlots) != 2 {
		t.Fatalf("occupiedSlots length = %d, want 2", len(rep.OccupiedSlots))
	}
	if rep.OccupiedSlots[0].SlotID != "C2001" || rep.OccupiedSlots[0].VehicleNumber != "KA01AB1234" {
		t.Errorf("first occupied slot = %+v", rep.OccupiedSlots[0])
	}
}

func TestBuildDailyReportEmptyLedger(t *testing.T) {
	rep := buildDailyReport(time.Now(), 5, nil)
	if rep.UsedSlots != 0 || rep.EmptySlots != 5 {
		t.Errorf("totals = (%d,%d), want (0,5)", rep.UsedSlots, rep.EmptySlots)
	}
	if rep.OccupiedSlots == nil || len(rep.OccupiedSlots) != 0 {
		t.Error("occupiedSlots must be an empty slice, not nil")
	}
}

func TestBuildDailyReportNeverNegative(t *testing.T) {
	// More open check-ins than active slots can happen transiently when
	// an occupied slot is counted while its registry row was just
	// deactivated by another connection's snapshot.  The report clamps.
	occupied := []repository.OccupiedSlot{
		{SlotCode: "A0001", VehicleID: "V1"},
		{SlotCode: "A0002", VehicleID: "V2"},
	}
	rep := buildDailyReport(time.Now(), 1, occupied)
	if rep.EmptySlots != 0 {
		t.Errorf("emptySlots = %d, want clamped 0", rep.EmptySlots)
	}
}
