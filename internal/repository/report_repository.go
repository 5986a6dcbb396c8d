package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepo is the read side for occupancy reporting.  It holds no
// state of its own; every report is recomputed from the occupancy
// ledger and the slot registry at call time.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// OccupiedSlot pairs a slot code with the vehicle currently parked in it.
type OccupiedSlot struct {
	SlotCode  string
	VehicleID string
}

// OpenCheckInsSince returns (slot code, vehicle id) for every check-in
// opened at or after the given instant that is still open, ordered by
// slot code for deterministic output.
func (r *ReportRepo) OpenCheckInsSince(ctx context.Context, since time.Time) ([]OccupiedSlot, error) {
	const q = `SELECT s.slot_code, c.vehicle_id
	           FROM check_ins c
	           JOIN parking_slots s ON s.id = c.slot_id
	           WHERE c.checked_in_at >= ? AND c.checked_out_at IS NULL
	           ORDER BY s.slot_code ASC`
	rows, err := r.DB.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := make([]OccupiedSlot, 0)
	for rows.Next() {
		var o OccupiedSlot
		if err := rows.Scan(&o.SlotCode, &o.VehicleID); err != nil {
			return nil, err
		}
		occupied = append(occupied, o)
	}
	return occupied, rows.Err()
}

// CountActiveSlots returns the number of active slots in the registry.
func (r *ReportRepo) CountActiveSlots(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM parking_slots WHERE is_active=1").Scan(&n)
	return n, err
}
