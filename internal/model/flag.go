package model

import "time"

// SlotFlag records a discrepancy reported by security: a vehicle
// observed in a slot that has no registered open check-in.  A flag is
// resolved at most once; ResolvedAt and ResolvedBy are set together
// and never cleared afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  SlotID     – slot where the vehicle was observed.
//  VehicleID  – registration of the observed vehicle.
//  ReportedBy – security user who raised the flag.
//  ReportedAt – when the flag was raised.
//  ResolvedAt – when it was resolved (null while open).
//  ResolvedBy – user who resolved it (null while open).
type SlotFlag struct {
    ID         uint64     `json:"id"`         // slot_flags.id
    SlotID     uint64     `json:"slotId"`     // slot_flags.slot_id
    VehicleID  string     `json:"vehicleId"`  // slot_flags.vehicle_id
    ReportedBy uint64     `json:"reportedBy"` // slot_flags.reported_by
    ReportedAt time.Time  `json:"reportedAt"` // slot_flags.reported_at
    ResolvedAt *time.Time `json:"resolvedAt"` // slot_flags.resolved_at (nullable)
    ResolvedBy *uint64    `json:"resolvedBy"` // slot_flags.resolved_by (nullable)
}
