// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Doctor
// model, including the queries used by the index-repair utility.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/domain"
)

// CreateDoctor inserts a new Doctor row. Email may be nil; empty strings are
// normalized to nil so the sparse unique index on email holds.
func CreateDoctor(ctx context.Context, db *gorm.DB, name, specialty string, email *string) (*domain.Doctor, error) {
	if email != nil && *email == "" {
		email = nil
	}
	d := &domain.Doctor{
		ID:        uuid.NewString(),
		Name:      name,
		Specialty: specialty,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// ListDoctors returns all doctors ordered by name.
func ListDoctors(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// FindDoctorsWithEmptyEmail returns doctors whose email is the empty string
// rather than NULL. Such rows defeat the sparse unique index and are the
// target of the repair utility's normalization step.
func FindDoctorsWithEmptyEmail(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).Where("email = ''").Find(&out).Error
	return out, err
}

// NormalizeEmptyEmails rewrites empty-string emails to NULL and reports how
// many rows changed.
func NormalizeEmptyEmails(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Where("email = ''").
		Update("email", nil)
	return res.RowsAffected, res.Error
}

// FindDuplicateEmailDoctors returns, for every non-NULL email held by more
// than one doctor, all but the oldest record (ordered by created_at, id).
// These are the rows that violate the unique constraint and would block an
// index rebuild.
func FindDuplicateEmailDoctors(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).Raw(`
		SELECT d.* FROM doctors d
		WHERE d.email IS NOT NULL
		  AND d.id NOT IN (
			SELECT id FROM doctors kept
			WHERE kept.email = d.email
			ORDER BY kept.created_at ASC, kept.id ASC
			LIMIT 1
		  )
		  AND EXISTS (
			SELECT 1 FROM doctors other
			WHERE other.email = d.email AND other.id <> d.id
		  )
		ORDER BY d.email ASC, d.created_at ASC`).
		Scan(&out).Error
	return out, err
}

// DeleteDoctorsByID removes the given doctor rows. Callers must have obtained
// explicit confirmation before invoking this; it is the only destructive
// operation in the repository.
func DeleteDoctorsByID(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Doctor{})
	return res.RowsAffected, res.Error
}

// RebuildDoctorEmailIndex drops and recreates the sparse unique index on
// doctors.email. SQLite unique indexes skip NULL rows, matching the source
// system's sparse-unique semantics.
func RebuildDoctorEmailIndex(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.Exec("DROP INDEX IF EXISTS ux_doctor_email").Error; err != nil {
		return err
	}
	return tx.Exec("CREATE UNIQUE INDEX ux_doctor_email ON doctors(email)").Error
}
