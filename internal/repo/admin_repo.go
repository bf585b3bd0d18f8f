// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Admin model.
//
// Error semantics:
//   - When an admin is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - When the username uniqueness constraint rejects an insert, CreateAdmin
//     returns ErrDuplicateUsername. Concurrent duplicate creates are resolved
//     by the constraint itself: the losing call gets ErrDuplicateUsername.
//   - On other DB errors (connectivity, missing table), the raw gorm error is
//     propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicateUsername is returned when an admin with the same username
// already exists.
var ErrDuplicateUsername = errors.New("username already exists")

// FindAdminByUsername fetches an admin by exact, case-sensitive username.
// Returns ErrNotFound when no such record exists.
func FindAdminByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin inserts a new Admin row with the given username and an already
// hashed password. The admin ID is a randomly generated UUID and CreatedAt is
// set to UTC. A uniqueness violation on the username maps to
// ErrDuplicateUsername.
func CreateAdmin(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.Admin, error) {
	a := &domain.Admin{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return a, nil
}

// CountAdmins returns the total number of administrator records.
func CountAdmins(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Admin{}).Count(&total).Error
	return total, err
}

// isUniqueViolation reports whether err is a uniqueness-constraint rejection.
// GORM surfaces ErrDuplicatedKey for drivers that translate constraint errors;
// the sqlite driver reports them as plain errors mentioning the constraint, so
// both shapes are checked.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
