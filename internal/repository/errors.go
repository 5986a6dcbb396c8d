// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// parsing error strings: a duplicate slot code, an occupied slot and an
// expired reset token must each surface as their own HTTP status.
package repository

import (
    "database/sql"
    "errors"
    "strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// Identity errors.
var (
    ErrEmailExists      = errors.New("email already exists")
    ErrEmployeeIDExists = errors.New("employee id already exists")
)

// Slot registry errors.
var (
    ErrSlotNotFound   = errors.New("slot not found")
    ErrSlotCodeExists = errors.New("slot code already exists")
    ErrSlotHasCheckIn = errors.New("slot has an active check-in")
)

// Occupancy ledger errors.
var (
    ErrCheckInNotFound   = errors.New("check-in record not found")
    ErrSlotOccupied      = errors.New("slot is already occupied")
    ErrAlreadyCheckedIn  = errors.New("user is already checked in")
    ErrAlreadyCheckedOut = errors.New("already checked out")
    ErrProfileMissing    = errors.New("employee profile not found")
)

// Flag ledger errors.
var (
    ErrFlagNotFound = errors.New("flag not found")
    ErrFlagResolved = errors.New("flag is already resolved")
)

// Password reset errors.  All three map to HTTP 400, but with
// distinct messages as the client-facing contract distinguishes them.
var (
    ErrTokenInvalid = errors.New("invalid or expired reset token")
    ErrTokenUsed    = errors.New("reset token has already been used")
    ErrTokenExpired = errors.New("reset token has expired")
)

// isDup reports whether err is a MySQL duplicate-entry error (1062),
// optionally constrained to a specific key name. The driver error text
// looks like: Error 1062 (23000): Duplicate entry 'x' for key 'tbl.uq_name'.
func isDup(err error, key string) bool {
    if err == nil {
        return false
    }
    msg := err.Error()
    if !strings.Contains(msg, "1062") {
        return false
    }
    return key == "" || strings.Contains(msg, key)
}

// noRows is a small readability helper for the common sentinel check.
func noRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
