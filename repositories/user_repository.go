package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecofinds/models"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := models.DB.QueryRow(ctx,
		`SELECT id, COALESCE(email, ''), COALESCE(name, ''), role, is_anonymous, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsAnonymous, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOrCreateByEmail resolves the platform identity behind an OTP sign-in.
func (r *UserRepository) FindOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := models.DB.QueryRow(ctx,
		`SELECT id, COALESCE(email, ''), COALESCE(name, ''), role, is_anonymous, created_at, updated_at
		 FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsAnonymous, &u.CreatedAt, &u.UpdatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	name := strings.Split(email, "@")[0]
	now := time.Now()
	err = models.DB.QueryRow(ctx,
		`INSERT INTO users (email, name, role, is_anonymous, created_at, updated_at)
		 VALUES ($1, $2, 'user', false, $3, $4)
		 RETURNING id, email, name, role, is_anonymous, created_at, updated_at`,
		email, name, now, now).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsAnonymous, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateAnonymous(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	now := time.Now()
	err := models.DB.QueryRow(ctx,
		`INSERT INTO users (name, role, is_anonymous, created_at, updated_at)
		 VALUES ($1, 'user', true, $2, $3)
		 RETURNING id, COALESCE(email, ''), name, role, is_anonymous, created_at, updated_at`,
		name, now, now).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsAnonymous, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOwnerSummary projects a user down to the fields listings may expose.
func (r *UserRepository) FindOwnerSummary(ctx context.Context, id int) (*models.OwnerSummary, error) {
	var o models.OwnerSummary
	err := models.DB.QueryRow(ctx,
		`SELECT COALESCE(name, ''), COALESCE(email, '') FROM users WHERE id = $1`, id).
		Scan(&o.Name, &o.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
