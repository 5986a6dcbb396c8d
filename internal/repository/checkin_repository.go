package repository

import (
	"context"
	"database/sql"

	"github.com/slotify/parking-api/internal/model"
)

// CheckInRepo is the occupancy ledger.  It owns every check_ins row
// and is the only component that writes them.  The two occupancy
// invariants — at most one open record per slot and at most one per
// user — are checked inside a transaction before each insert and
// additionally enforced by unique indexes on the generated open_*
// columns, so a losing concurrent request fails with a duplicate-key
// error that is translated back into the same sentinel the
// precondition check would have produced.
type CheckInRepo struct{ DB *sql.DB }

func NewCheckInRepo(db *sql.DB) *CheckInRepo { return &CheckInRepo{DB: db} }

// CheckInDetail is a check-in record joined with its slot, as returned
// to employees.
type CheckInDetail struct {
	model.CheckIn
	Slot model.ParkingSlot `json:"slot"`
}

const checkInJoinCols = `c.id, c.user_id, c.slot_id, c.vehicle_id, c.checked_in_at, c.checked_out_at,
	       s.id, s.slot_code, s.level, s.type, s.is_active, s.created_at, s.updated_at`

func scanCheckInDetail(row interface{ Scan(...interface{}) error }, d *CheckInDetail) error {
	var out sql.NullTime
	err := row.Scan(
		&d.ID, &d.UserID, &d.SlotID, &d.VehicleID, &d.CheckedInAt, &out,
		&d.Slot.ID, &d.Slot.SlotCode, &d.Slot.Level, &d.Slot.Type, &d.Slot.IsActive,
		&d.Slot.CreatedAt, &d.Slot.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if out.Valid {
		t := out.Time
		d.CheckedOutAt = &t
	}
	return nil
}

// ListAvailable returns every active slot with no open check-in,
// ordered by level then code.  Pure read.
func (r *CheckInRepo) ListAvailable(ctx context.Context) ([]model.ParkingSlot, error) {
	const q = `SELECT s.id, s.slot_code, s.level, s.type, s.is_active, s.created_at, s.updated_at
	           FROM parking_slots s
	           WHERE s.is_active=1
	             AND NOT EXISTS (
	                 SELECT 1 FROM check_ins c
	                 WHERE c.slot_id = s.id AND c.checked_out_at IS NULL)
	           ORDER BY s.level ASC, s.slot_code ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]model.ParkingSlot, 0)
	for rows.Next() {
		var s model.ParkingSlot
		if err := rows.Scan(&s.ID, &s.SlotCode, &s.Level, &s.Type, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// CheckIn records an employee entering a slot.  All preconditions are
// evaluated against one transactional snapshot, with the slot row
// locked first so concurrent attempts on the same slot serialize:
//   1. slot exists and is active              -> ErrSlotNotFound
//   2. slot has no open check-in              -> ErrSlotOccupied
//   3. user has no open check-in anywhere     -> ErrAlreadyCheckedIn
//   4. user owns an employee profile, whose
//      vehicle id is copied into the record   -> ErrProfileMissing
// The insert itself can still lose a race on the open_slot_id /
// open_user_id unique indexes; those duplicate-key failures map back
// to the same CONFLICT sentinels.
func (r *CheckInRepo) CheckIn(ctx context.Context, userID, slotID uint64) (CheckInDetail, error) {
	var det CheckInDetail

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

	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM check_ins WHERE slot_id=? AND checked_out_at IS NULL", slotID).Scan(&n); err != nil {
		return det, err
	}
	if n > 0 {
		return det, ErrSlotOccupied
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM check_ins WHERE user_id=? AND checked_out_at IS NULL", userID).Scan(&n); err != nil {
		return det, err
	}
	if n > 0 {
		return det, ErrAlreadyCheckedIn
	}

	var vehicleID string
	err = tx.QueryRowContext(ctx,
		"SELECT vehicle_id FROM employee_profiles WHERE user_id=? LIMIT 1", userID).Scan(&vehicleID)
	if noRows(err) {
		return det, ErrProfileMissing
	}
	if err != nil {
		return det, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO check_ins (user_id, slot_id, vehicle_id) VALUES (?,?,?)",
		userID, slotID, vehicleID)
	if err != nil {
		if isDup(err, "uq_checkins_open_slot") {
			return det, ErrSlotOccupied
		}
		if isDup(err, "uq_checkins_open_user") {
			return det, ErrAlreadyCheckedIn
		}
		return det, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return det, err
	}

	const sel = `SELECT ` + checkInJoinCols + `
	             FROM check_ins c JOIN parking_slots s ON s.id = c.slot_id
	             WHERE c.id = ?`
	if err := scanCheckInDetail(tx.QueryRowContext(ctx, sel, id), &det); err != nil {
		return det, err
	}

	if err := tx.Commit(); err != nil {
		return det, err
	}
	committed = true
	return det, nil
}

// CheckOut closes a check-in record.  The record must exist
// (ErrCheckInNotFound), belong to the requesting user (ErrForbidden)
// and still be open (ErrAlreadyCheckedOut).  Repeating a successful
// checkout fails on purpose; the second caller learns the record was
// already closed instead of being silently told "done".
func (r *CheckInRepo) CheckOut(ctx context.Context, userID, checkInID uint64) (CheckInDetail, error) {
	var det CheckInDetail

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

	var (
		ownerID    uint64
		checkedOut sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, checked_out_at FROM check_ins WHERE id=? LIMIT 1 FOR UPDATE",
		checkInID).Scan(&ownerID, &checkedOut)
	if noRows(err) {
		return det, ErrCheckInNotFound
	}
	if err != nil {
		return det, err
	}
	if ownerID != userID {
		return det, ErrForbidden
	}
	if checkedOut.Valid {
		return det, ErrAlreadyCheckedOut
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE check_ins SET checked_out_at=UTC_TIMESTAMP() WHERE id=?", checkInID); err != nil {
		return det, err
	}

	const sel = `SELECT ` + checkInJoinCols + `
	             FROM check_ins c JOIN parking_slots s ON s.id = c.slot_id
	             WHERE c.id = ?`
	if err := scanCheckInDetail(tx.QueryRowContext(ctx, sel, checkInID), &det); err != nil {
		return det, err
	}

	if err := tx.Commit(); err != nil {
		return det, err
	}
	committed = true
	return det, nil
}

// ListByUser returns all of a user's check-ins, newest first, each
// joined with its slot.
func (r *CheckInRepo) ListByUser(ctx context.Context, userID uint64) ([]CheckInDetail, error) {
	const q = `SELECT ` + checkInJoinCols + `
	           FROM check_ins c JOIN parking_slots s ON s.id = c.slot_id
	           WHERE c.user_id = ?
	           ORDER BY c.checked_in_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]CheckInDetail, 0)
	for rows.Next() {
		var d CheckInDetail
		if err := scanCheckInDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// ForceCheckoutAll stamps a checkout time on every open check-in in a
// single statement and returns the number of rows affected.  The
// caller is responsible for re-authenticating the admin first; this is
// the emergency-release valve, not a routine operation.
func (r *CheckInRepo) ForceCheckoutAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE check_ins SET checked_out_at=UTC_TIMESTAMP() WHERE checked_out_at IS NULL")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HasOpenForSlot reports whether a slot currently has an open check-in.
// Used by the flag ledger's precondition.
func (r *CheckInRepo) HasOpenForSlot(ctx context.Context, slotID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM check_ins WHERE slot_id=? AND checked_out_at IS NULL", slotID).Scan(&n)
	return n > 0, err
}
