package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/slotify/parking-api/internal/model"
)

// FlagRepo is the flag ledger.  Flags record vehicles observed in
// slots that carry no registered open check-in; an occupied-and-
// registered slot is not flaggable, and mismatches against a
// registered check-in are surfaced via the daily report instead.
type FlagRepo struct{ DB *sql.DB }

func NewFlagRepo(db *sql.DB) *FlagRepo { return &FlagRepo{DB: db} }

// UserSummary identifies the reporter or resolver of a flag.
type UserSummary struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// FlagDetail is a flag joined with its slot and the identities of the
// reporting and (when resolved) resolving users.
type FlagDetail struct {
	ID         uint64            `json:"id"`
	VehicleID  string            `json:"vehicleId"`
	ReportedAt time.Time         `json:"reportedAt"`
	ResolvedAt *time.Time        `json:"resolvedAt"`
	Slot       model.ParkingSlot `json:"slot"`
	ReportedBy UserSummary       `json:"reportedBy"`
	ResolvedBy *UserSummary      `json:"resolvedBy"`
}

const flagJoinQuery = `SELECT f.id, f.vehicle_id, f.reported_at, f.resolved_at,
	       s.id, s.slot_code, s.level, s.type, s.is_active, s.created_at, s.updated_at,
	       rep.id, rep.email, res.id, res.email
	FROM slot_flags f
	JOIN parking_slots s ON s.id = f.slot_id
	JOIN users rep ON rep.id = f.reported_by
	LEFT JOIN users res ON res.id = f.resolved_by`

func scanFlagDetail(row interface{ Scan(...interface{}) error }, d *FlagDetail) error {
	var (
		resolvedAt sql.NullTime
		resID      sql.NullInt64
		resEmail   sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.VehicleID, &d.ReportedAt, &resolvedAt,
		&d.Slot.ID, &d.Slot.SlotCode, &d.Slot.Level, &d.Slot.Type, &d.Slot.IsActive,
		&d.Slot.CreatedAt, &d.Slot.UpdatedAt,
		&d.ReportedBy.ID, &d.ReportedBy.Email, &resID, &resEmail,
	)
	if err != nil {
		return err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		d.ResolvedAt = &t
	}
	if resID.Valid {
		d.ResolvedBy = &UserSummary{ID: uint64(resID.Int64), Email: resEmail.String}
	}
	return nil
}

// Create raises a flag against a slot.  Preconditions, checked inside
// one transaction with the slot row locked: the slot exists and is
// active (ErrSlotNotFound) and has no open check-in (ErrSlotHasCheckIn).
// A flag created while a legitimate check-in lands concurrently loses
// the race on the slot lock, never both.
func (r *FlagRepo) Create(ctx context.Context, reportedBy, slotID uint64, vehicleID string) (FlagDetail, error) {
	var det FlagDetail

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return det, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var isActive bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_active FROM parking_slots WHERE id=? LIMIT 1 FOR UPDATE", slotID).Scan(&isActive)
	if noRows(err) {
		return det, ErrSlotNotFound
	}
	if err != nil {
		return det, err
	}
	if !isActive {
		return det, ErrSlotNotFound
	}

	var open int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM check_ins WHERE slot_id=? AND checked_out_at IS NULL", slotID).Scan(&open); err != nil {
		return det, err
	}
	if open > 0 {
		return det, ErrSlotHasCheckIn
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO slot_flags (slot_id, vehicle_id, reported_by) VALUES (?,?,?)",
		slotID, vehicleID, reportedBy)
	if err != nil {
		return det, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return det, err
	}

	if err := scanFlagDetail(tx.QueryRowContext(ctx, flagJoinQuery+" WHERE f.id = ?", id), &det); err != nil {
		return det, err
	}

	if err := tx.Commit(); err != nil {
		return det, err
	}
	committed = true
	return det, nil
}

// List returns all flags, newest report first.  resolved filters to
// resolved-only (true) or unresolved-only (false); nil means all.
func (r *FlagRepo) List(ctx context.Context, resolved *bool) ([]FlagDetail, error) {
	q := flagJoinQuery
	if resolved != nil {
		if *resolved {
			q += " WHERE f.resolved_at IS NOT NULL"
		} else {
			q += " WHERE f.resolved_at IS NULL"
		}
	}
	q += " ORDER BY f.reported_at DESC"

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FlagDetail, 0)
	for rows.Next() {
		var d FlagDetail
		if err := scanFlagDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Resolve closes a flag exactly once.  Unknown ids yield
// ErrFlagNotFound; a second resolve yields ErrFlagResolved.  The
// transition is one-way — resolved_at and resolved_by are written
// together and never cleared.
func (r *FlagRepo) Resolve(ctx context.Context, flagID, resolvedBy uint64) (FlagDetail, error) {
	var det FlagDetail

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return det, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var resolvedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		"SELECT resolved_at FROM slot_flags WHERE id=? LIMIT 1 FOR UPDATE", flagID).Scan(&resolvedAt)
	if noRows(err) {
		return det, ErrFlagNotFound
	}
	if err != nil {
		return det, err
	}
	if resolvedAt.Valid {
		return det, ErrFlagResolved
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE slot_flags SET resolved_at=UTC_TIMESTAMP(), resolved_by=? WHERE id=?",
		resolvedBy, flagID); err != nil {
		return det, err
	}

	if err := scanFlagDetail(tx.QueryRowContext(ctx, flagJoinQuery+" WHERE f.id = ?", flagID), &det); err != nil {
		return det, err
	}

	if err := tx.Commit(); err != nil {
		return det, err
	}
	committed = true
	return det, nil
}
