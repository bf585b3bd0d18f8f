package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/repo"
)

func newDoctorDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "doctors.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		if err := db.AutoMigrate(&domain.Doctor{}); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestDoctorService_ListDoctors(t *testing.T) {
	db := newDoctorDB(t, true)
	ctx := context.Background()

	for _, name := range []string{"Zed", "Amy"} {
		if _, err := repo.CreateDoctor(ctx, db, name, "gp", nil); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	s := &DoctorService{DB: db}
	out, err := s.ListDoctors(ctx)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Amy" || out[1].Name != "Zed" {
		t.Fatalf("unexpected doctors: %+v", out)
	}
}

func TestDoctorService_StoreFailure(t *testing.T) {
	db := newDoctorDB(t, false) // no doctors table

	s := &DoctorService{DB: db}
	if _, err := s.ListDoctors(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
