// Package services – DoctorService
//
// Read-only access to the doctor directory shown to patients.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/repo"
)

// DoctorService lists clinic practitioners.
type DoctorService struct {
	DB *gorm.DB
}

// ListDoctors returns all doctors ordered by name. Store failures map to
// ErrStoreUnavailable.
func (s *DoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	out, err := repo.ListDoctors(ctx, s.DB)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return out, nil
}
