package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"ecofinds/models"
)

type SecurityRepo interface {
	Find(ctx context.Context, userID int) (*models.UserSecurity, error)
	Upsert(ctx context.Context, userID int, passwordHash, salt string) error
}

// AttemptLimiter counts failed verifies per key inside a fixed window.
type AttemptLimiter interface {
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// SecurityService implements the secondary password gate on top of platform
// auth. Hashing happens on the client; the server stores and compares
// hex-encoded values only.
type SecurityService struct {
	repo        SecurityRepo
	limiter     AttemptLimiter
	maxAttempts int
}

func NewSecurityService(repo SecurityRepo, limiter AttemptLimiter, maxAttempts int) *SecurityService {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &SecurityService{repo: repo, limiter: limiter, maxAttempts: maxAttempts}
}

// Status reports whether the caller has a gate password and, if so, the salt
// the client needs to recompute the hash.
func (s *SecurityService) Status(ctx context.Context, userID int) (models.SecurityStatus, error) {
	if userID == 0 {
		return models.SecurityStatus{HasPassword: false, Salt: nil}, nil
	}

	row, err := s.repo.Find(ctx, userID)
	if err != nil {
		return models.SecurityStatus{}, err
	}
	if row == nil {
		return models.SecurityStatus{HasPassword: false, Salt: nil}, nil
	}

	salt := row.Salt
	return models.SecurityStatus{HasPassword: true, Salt: &salt}, nil
}

// SetPassword upserts the single security row for the caller.
func (s *SecurityService) SetPassword(ctx context.Context, userID int, passwordHash, salt string) error {
	if userID == 0 {
		return ErrAuthRequired
	}

	if _, err := hex.DecodeString(passwordHash); err != nil || len(passwordHash) != 64 {
		return errors.New("password hash must be a hex-encoded SHA-256 digest")
	}
	if _, err := hex.DecodeString(salt); err != nil || salt == "" {
		return errors.New("salt must be hex-encoded")
	}

	return s.repo.Upsert(ctx, userID, passwordHash, salt)
}

// VerifyPassword compares the client-recomputed hash against the stored one.
// Repeated failures within the window lock the gate until it expires.
func (s *SecurityService) VerifyPassword(ctx context.Context, userID int, passwordHash string) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	limiterKey := fmt.Sprintf("gate_verify:%d", userID)
	if s.limiter != nil {
		attempts, err := s.limiter.Hit(ctx, limiterKey)
		if err == nil && attempts > s.maxAttempts {
			return false, ErrLockedOut
		}
	}

	row, err := s.repo.Find(ctx, userID)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}

	ok := row.PasswordHash == passwordHash
	if ok && s.limiter != nil {
		_ = s.limiter.Reset(ctx, limiterKey)
	}
	return ok, nil
}
