package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/slotify/parking-api/internal/model"
	"github.com/slotify/parking-api/internal/utils"
)

// UserRepo persists users and their employee profiles.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a bare user (no profile) and returns its ID.  Used for
// seeding admin/security accounts.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, string(role))
	if err != nil {
		if isDup(err, "uq_users_email") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// RegisterEmployee creates the user row and its employee profile inside a
// single transaction.  Either both rows exist afterwards or neither does;
// a user without a profile would be unable to check in.  Duplicate email
// and duplicate employee id surface as distinct sentinels.
func (r *UserRepo) RegisterEmployee(ctx context.Context, email, password string, cost int, employeeID, vehicleID, phoneNumber string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, string(model.RoleEmployee))
	if err != nil {
		if isDup(err, "uq_users_email") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	uid := uint64(id)

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO employee_profiles (user_id, employee_id, vehicle_id, phone_number) VALUES (?,?,?,?)",
		uid, employeeID, vehicleID, phoneNumber); err != nil {
		if isDup(err, "uq_profiles_employee_id") {
			return 0, ErrEmployeeIDExists
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uid, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ProfileSummary is the subset of an employee profile exposed in the
// user administration listing.
type ProfileSummary struct {
	EmployeeID  string `json:"employeeId"`
	VehicleID   string `json:"vehicleId"`
	PhoneNumber string `json:"phoneNumber"`
}

// UserListItem is a user row joined with its optional profile, as
// returned by the admin user listing.
type UserListItem struct {
	ID        uint64          `json:"id"`
	Email     string          `json:"email"`
	Role      model.Role      `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	Profile   *ProfileSummary `json:"profile"`
}

// ListWithProfiles returns every user ordered by role then creation
// time, each joined with its employee profile when one exists.
func (r *UserRepo) ListWithProfiles(ctx context.Context) ([]UserListItem, error) {
	const q = `SELECT u.id, u.email, u.role, u.created_at,
	                  p.employee_id, p.vehicle_id, p.phone_number
	           FROM users u
	           LEFT JOIN employee_profiles p ON p.user_id = u.id
	           ORDER BY u.role ASC, u.created_at ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UserListItem, 0)
	for rows.Next() {
		var it UserListItem
		var empID, vehID, phone sql.NullString
		if err := rows.Scan(&it.ID, &it.Email, &it.Role, &it.CreatedAt, &empID, &vehID, &phone); err != nil {
			return nil, err
		}
		if empID.Valid {
			it.Profile = &ProfileSummary{
				EmployeeID:  empID.String,
				VehicleID:   vehID.String,
				PhoneNumber: phone.String,
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetVehicleID returns the vehicle identifier from a user's employee
// profile, or ErrProfileMissing when the user has none.
func (r *UserRepo) GetVehicleID(ctx context.Context, userID uint64) (string, error) {
	var vehicleID string
	err := r.DB.QueryRowContext(ctx,
		"SELECT vehicle_id FROM employee_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&vehicleID)
	if noRows(err) {
		return "", ErrProfileMissing
	}
	return vehicleID, err
}

// UpdatePasswordTx replaces a user's password hash within an existing
// transaction.  Used by the reset-password flow so the hash update and
// the token consumption commit together.
func (r *UserRepo) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, userID uint64, newHash string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", newHash, userID)
	return err
}

// ClearEmployees removes every EMPLOYEE account together with all rows
// referencing them: flags they reported, their check-ins (open or not)
// and finally the user rows themselves.  Employee profiles and reset
// tokens cascade via foreign keys.  The whole purge is one transaction;
// a zero-employee database is a no-op returning count 0.
func (r *UserRepo) ClearEmployees(ctx context.Context) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM users WHERE role=? FOR UPDATE", string(model.RoleEmployee))
	if err != nil {
		return 0, err
	}
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}

	ph, args := placeholders(ids)
	if _, err := tx.ExecContext(ctx, "DELETE FROM slot_flags WHERE reported_by IN ("+ph+")", args...); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM check_ins WHERE user_id IN ("+ph+")", args...); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id IN ("+ph+")", args...); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return len(ids), nil
}

// placeholders builds "?,?,?" and the matching args slice for an IN clause.
func placeholders(ids []uint64) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
		args = append(args, id)
	}
	return b.String(), args
}
