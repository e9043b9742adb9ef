package repositories

import (
	"context"
	"errors"
	"time"

	"ecofinds/models"

	"github.com/jackc/pgx/v5"
)

type SecurityRepository struct{}

func NewSecurityRepository() *SecurityRepository {
	return &SecurityRepository{}
}

func (r *SecurityRepository) Find(ctx context.Context, userID int) (*models.UserSecurity, error) {
	var s models.UserSecurity
	err := models.DB.QueryRow(ctx,
		`SELECT user_id, password_hash, salt, created_at, updated_at
		 FROM user_security WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.PasswordHash, &s.Salt, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert replaces the single security row per user; there is never more
// than one.
func (r *SecurityRepository) Upsert(ctx context.Context, userID int, passwordHash, salt string) error {
	now := time.Now()
	_, err := models.DB.Exec(ctx,
		`INSERT INTO user_security (user_id, password_hash, salt, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id)
		 DO UPDATE SET password_hash = EXCLUDED.password_hash, salt = EXCLUDED.salt, updated_at = EXCLUDED.updated_at`,
		userID, passwordHash, salt, now)
	return err
}
