package database

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/slotify/parking-api/internal/model"
	"github.com/slotify/parking-api/internal/utils"
)

// Seed inserts the baseline admin and security accounts plus a handful
// of sample slots.  Every insert is an upsert-style no-op when the row
// already exists, so seeding an already-seeded database changes
// nothing.  Gated behind the SEED env var in main.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int, log *zap.Logger) error {
	accounts := []struct {
		email    string
		password string
		role     model.Role
	}{
		{"admin@slotify.com", "Admin@1234", model.RoleAdmin},
		{"security@slotify.com", "Security@1234", model.RoleSecurity},
	}
	for _, a := range accounts {
		var exists int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM users WHERE email=?", a.email).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		hash, err := utils.HashPassword(a.password, bcryptCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
			a.email, hash, string(a.role)); err != nil {
			return err
		}
		log.Info("seeded account", zap.String("email", a.email), zap.String("role", string(a.role)))
	}

	slots := []struct {
		code     string
		level    uint32
		slotType string
	}{
		{"M1001", 1, model.SlotTypeTwoWheeler},
		{"M1002", 1, model.SlotTypeTwoWheeler},
		{"M1003", 1, model.SlotTypeTwoWheeler},
		{"M1004", 1, model.SlotTypeTwoWheeler},
		{"M1005", 1, model.SlotTypeTwoWheeler},
		{"C2001", 2, model.SlotTypeFourWheeler},
		{"C2002", 2, model.SlotTypeFourWheeler},
		{"C2003", 2, model.SlotTypeFourWheeler},
		{"C2004", 2, model.SlotTypeFourWheeler},
		{"C2005", 2, model.SlotTypeFourWheeler},
	}
	seeded := 0
	for _, s := range slots {
		res, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO parking_slots (slot_code, level, type) VALUES (?,?,?)",
			s.code, s.level, s.slotType)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}
	if seeded > 0 {
		log.Info("seeded parking slots", zap.Int("count", seeded))
	}
	return nil
}
