package model

import "time"

// CheckIn binds one employee to one slot and one vehicle.  While
// CheckedOutAt is null the record is "open" and the slot counts as
// occupied.  Two invariants hold at all times: at most one open
// record per slot and at most one open record per user.  The vehicle
// identifier is copied from the employee's profile at check-in time
// so later profile edits do not rewrite history.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – employee who checked in.
//  SlotID       – slot being occupied.
//  VehicleID    – vehicle registration captured at check-in.
//  CheckedInAt  – when the vehicle entered.
//  CheckedOutAt – when it left (null while parked).
type CheckIn struct {
    ID           uint64     `json:"id"`           // check_ins.id
    UserID       uint64     `json:"userId"`       // check_ins.user_id
    SlotID       uint64     `json:"slotId"`       // check_ins.slot_id
    VehicleID    string     `json:"vehicleId"`    // check_ins.vehicle_id
    CheckedInAt  time.Time  `json:"checkedInAt"`  // check_ins.checked_in_at
    CheckedOutAt *time.Time `json:"checkedOutAt"` // check_ins.checked_out_at (nullable)
}
