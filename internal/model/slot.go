package model

import "time"

// Slot vehicle-class types.  A slot accepts exactly one class.
const (
    SlotTypeTwoWheeler  = "TWO_WHEELER"
    SlotTypeFourWheeler = "FOUR_WHEELER"
)

// ParkingSlot describes a physical parking space.  Slots are
// identified by a human-readable code (one uppercase letter followed
// by four digits, e.g. M1001) which is unique across all rows.  A
// slot is never hard-deleted: deletion flips IsActive to false and a
// later create with the same code reactivates the row.
//
// Fields:
//  ID        – primary key identifier.
//  SlotCode  – unique code, ^[A-Z]\d{4}$.
//  Level     – floor level, positive integer.
//  Type      – vehicle class (TWO_WHEELER, FOUR_WHEELER).
//  IsActive  – whether the slot currently exists for business purposes.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type ParkingSlot struct {
    ID        uint64    `json:"id"`         // parking_slots.id
    SlotCode  string    `json:"slotCode"`   // parking_slots.slot_code
    Level     uint32    `json:"level"`      // parking_slots.level
    Type      string    `json:"type"`       // parking_slots.type
    IsActive  bool      `json:"isActive"`   // parking_slots.is_active
    CreatedAt time.Time `json:"createdAt"`  // parking_slots.created_at
    UpdatedAt time.Time `json:"updatedAt"`  // parking_slots.updated_at
}
