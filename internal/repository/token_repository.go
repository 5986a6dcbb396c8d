package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists password reset tokens (single 'token_hash' column).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreReset inserts a reset token hash row for the given user.
func (r *TokenRepo) StoreReset(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ConsumeReset validates a reset token by hash and, when valid, updates
// the owning user's password hash and marks the token used — both inside
// one transaction so the token can never be spent without the password
// actually changing.  Returns ErrTokenInvalid for unknown hashes,
// ErrTokenUsed for already-consumed tokens and ErrTokenExpired for
// tokens past their expiry.
func (r *TokenRepo) ConsumeReset(ctx context.Context, users *UserRepo, tokenHash, newPasswordHash string) error {
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

	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM password_reset_tokens WHERE token_hash=? LIMIT 1 FOR UPDATE",
		tokenHash).Scan(&id, &userID, &expiresAt, &usedAt)
	if noRows(err) {
		return ErrTokenInvalid
	}
	if err != nil {
		return err
	}
	if usedAt.Valid {
		return ErrTokenUsed
	}
	if time.Now().UTC().After(expiresAt) {
		return ErrTokenExpired
	}

	if err := users.UpdatePasswordTx(ctx, tx, userID, newPasswordHash); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=UTC_TIMESTAMP() WHERE id=?", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
