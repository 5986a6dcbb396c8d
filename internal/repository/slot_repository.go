package repository

import (
	"context"
	"database/sql"

	"github.com/slotify/parking-api/internal/model"
)

// SlotRepo manages the parking slot registry.  Slots are soft-deleted:
// the row stays in place with is_active=0 so the code can later be
// reused by reactivation, and historical check-ins keep a valid
// reference.
type SlotRepo struct{ DB *sql.DB }

func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{DB: db} }

const slotCols = "id, slot_code, level, type, is_active, created_at, updated_at"

func scanSlot(row interface{ Scan(...interface{}) error }, s *model.ParkingSlot) error {
	return row.Scan(&s.ID, &s.SlotCode, &s.Level, &s.Type, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// ListActive returns all active slots ordered by level then code.
func (r *SlotRepo) ListActive(ctx context.Context) ([]model.ParkingSlot, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+slotCols+" FROM parking_slots WHERE is_active=1 ORDER BY level ASC, slot_code ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]model.ParkingSlot, 0)
	for rows.Next() {
		var s model.ParkingSlot
		if err := scanSlot(rows, &s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// GetByID fetches a slot regardless of its active state.  Callers that
// only deal in live slots must check IsActive themselves; "not found"
// and "soft-deleted" are the same condition at the API surface.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (model.ParkingSlot, error) {
	var s model.ParkingSlot
	err := scanSlot(r.DB.QueryRowContext(ctx,
		"SELECT "+slotCols+" FROM parking_slots WHERE id=? LIMIT 1", id), &s)
	if noRows(err) {
		return s, ErrSlotNotFound
	}
	return s, err
}

// Create registers a slot code.  When the code already exists on an
// active row the call fails with ErrSlotCodeExists.  When it exists on
// a soft-deleted row, that row is reactivated and its level and type
// overwritten with the supplied values — recreating a deleted code is
// reactivation, never a second row.  The lookup and the write happen
// under one transaction with the code row locked, so two concurrent
// creates for the same code cannot both succeed.
func (r *SlotRepo) Create(ctx context.Context, code string, level uint32, slotType string) (model.ParkingSlot, error) {
	var out model.ParkingSlot

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing model.ParkingSlot
	err = scanSlot(tx.QueryRowContext(ctx,
		"SELECT "+slotCols+" FROM parking_slots WHERE slot_code=? LIMIT 1 FOR UPDATE", code), &existing)
	switch {
	case err == nil && existing.IsActive:
		return out, ErrSlotCodeExists
	case err == nil:
		// Soft-deleted row: reactivate with the new attributes.
		if _, err := tx.ExecContext(ctx,
			"UPDATE parking_slots SET is_active=1, level=?, type=? WHERE id=?",
			level, slotType, existing.ID); err != nil {
			return out, err
		}
		if err := scanSlot(tx.QueryRowContext(ctx,
			"SELECT "+slotCols+" FROM parking_slots WHERE id=?", existing.ID), &out); err != nil {
			return out, err
		}
	case noRows(err):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO parking_slots (slot_code, level, type) VALUES (?,?,?)",
			code, level, slotType)
		if err != nil {
			if isDup(err, "uq_slots_code") {
				return out, ErrSlotCodeExists
			}
			return out, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return out, err
		}
		if err := scanSlot(tx.QueryRowContext(ctx,
			"SELECT "+slotCols+" FROM parking_slots WHERE id=?", id), &out); err != nil {
			return out, err
		}
	default:
		return out, err
	}

	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true
	return out, nil
}

// SlotUpdate carries the optional fields of a slot update.  Nil fields
// are left untouched.
type SlotUpdate struct {
	SlotCode *string
	Level    *uint32
	Type     *string
}

// Update applies a partial update to an active slot.  Missing or
// soft-deleted slots yield ErrSlotNotFound; renaming onto a code that
// already exists (active or not) yields ErrSlotCodeExists.
func (r *SlotRepo) Update(ctx context.Context, id uint64, upd SlotUpdate) (model.ParkingSlot, error) {
	var out model.ParkingSlot

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cur model.ParkingSlot
	err = scanSlot(tx.QueryRowContext(ctx,
		"SELECT "+slotCols+" FROM parking_slots WHERE id=? LIMIT 1 FOR UPDATE", id), &cur)
	if noRows(err) {
		return out, ErrSlotNotFound
	}
	if err != nil {
		return out, err
	}
	if !cur.IsActive {
		return out, ErrSlotNotFound
	}

	if upd.SlotCode != nil && *upd.SlotCode != cur.SlotCode {
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM parking_slots WHERE slot_code=?", *upd.SlotCode).Scan(&n); err != nil {
			return out, err
		}
		if n > 0 {
			return out, ErrSlotCodeExists
		}
		cur.SlotCode = *upd.SlotCode
	}
	if upd.Level != nil {
		cur.Level = *upd.Level
	}
	if upd.Type != nil {
		cur.Type = *upd.Type
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE parking_slots SET slot_code=?, level=?, type=? WHERE id=?",
		cur.SlotCode, cur.Level, cur.Type, id); err != nil {
		if isDup(err, "uq_slots_code") {
			return out, ErrSlotCodeExists
		}
		return out, err
	}
	if err := scanSlot(tx.QueryRowContext(ctx,
		"SELECT "+slotCols+" FROM parking_slots WHERE id=?", id), &out); err != nil {
		return out, err
	}

	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true
	return out, nil
}

// SoftDelete marks an active slot inactive.  A slot with an open
// check-in cannot be deleted (ErrSlotHasCheckIn); the occupancy check
// and the flag flip share one transaction so a concurrent check-in
// cannot slip in between.
func (r *SlotRepo) SoftDelete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var isActive bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_active FROM parking_slots WHERE id=? LIMIT 1 FOR UPDATE", id).Scan(&isActive)
	if noRows(err) {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}
	if !isActive {
		return ErrSlotNotFound
	}

	var open int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM check_ins WHERE slot_id=? AND checked_out_at IS NULL", id).Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		return ErrSlotHasCheckIn
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE parking_slots SET is_active=0 WHERE id=?", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CountActive returns the number of active slots.
func (r *SlotRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM parking_slots WHERE is_active=1").Scan(&n)
	return n, err
}
