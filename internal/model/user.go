package model

import "time"

// Role is the closed set of account types known to the system.  It is
// stored as an ENUM column on the users table and carried in the JWT
// "role" claim.  Authorization decisions go through Allowed rather
// than ad-hoc string comparisons inside handlers.
type Role string

const (
    RoleAdmin    Role = "ADMIN"    // manages slots, users, reports and flag resolution
    RoleEmployee Role = "EMPLOYEE" // checks in and out of parking slots
    RoleSecurity Role = "SECURITY" // reports unauthorised vehicles
)

// ParseRole converts a raw string into a Role.  The second return
// value is false when the input is not one of the three known roles.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleAdmin, RoleEmployee, RoleSecurity:
        return Role(s), true
    }
    return "", false
}

// Allowed reports whether the role is a member of the required set.
// It is a pure function so authorization can be tested without any
// HTTP plumbing.
func (r Role) Allowed(required ...Role) bool {
    for _, req := range required {
        if r == req {
            return true
        }
    }
    return false
}

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  Handlers define separate response types with JSON tags;
// these structs stay close to the schema.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (ADMIN, EMPLOYEE or SECURITY).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// EmployeeProfile holds the parking-specific details of an EMPLOYEE
// account.  Exactly one profile exists per employee and it is created
// in the same transaction as the user row at registration time.
//
// Fields:
//  UserID      – owning user (primary key, cascades on user delete).
//  EmployeeID  – company badge identifier, unique.
//  VehicleID   – registration number of the employee's vehicle.
//  PhoneNumber – contact number.
//  CreatedAt   – creation timestamp.
type EmployeeProfile struct {
    UserID      uint64    // employee_profiles.user_id
    EmployeeID  string    // employee_profiles.employee_id
    VehicleID   string    // employee_profiles.vehicle_id
    PhoneNumber string    // employee_profiles.phone_number
    CreatedAt   time.Time // employee_profiles.created_at
}

// PasswordResetToken models an entry in the `password_reset_tokens`
// table.  The plain token is never stored; only its SHA-256 hash.
// A token is usable exactly once and only before its expiry.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  UsedAt    – when the token was consumed (null while unused).
//  CreatedAt – timestamp of creation.
type PasswordResetToken struct {
    ID        uint64     // password_reset_tokens.id
    UserID    uint64     // password_reset_tokens.user_id
    TokenHash string     // password_reset_tokens.token_hash
    ExpiresAt time.Time  // password_reset_tokens.expires_at
    UsedAt    *time.Time // password_reset_tokens.used_at (nullable)
    CreatedAt time.Time  // password_reset_tokens.created_at
}
