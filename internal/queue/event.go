// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckInRecordedEvent is published when an employee successfully checks
// into a slot.  It contains enough information for downstream consumers
// to log, notify, or feed analytics without querying the primary database.
type CheckInRecordedEvent struct {
    CheckInID   uint64 `json:"check_in_id"`
    UserID      uint64 `json:"user_id"`
    SlotID      uint64 `json:"slot_id"`
    SlotCode    string `json:"slot_code"`
    Level       uint32 `json:"level"`
    VehicleID   string `json:"vehicle_id"`
    CheckedInAt string `json:"checked_in_at"`
}

// FlagRaisedEvent is published when security flags an unauthorised
// vehicle so the guard desk can be notified out of band.
type FlagRaisedEvent struct {
    FlagID     uint64 `json:"flag_id"`
    SlotID     uint64 `json:"slot_id"`
    SlotCode   string `json:"slot_code"`
    VehicleID  string `json:"vehicle_id"`
    ReportedBy uint64 `json:"reported_by"`
    ReportedAt string `json:"reported_at"`
}
