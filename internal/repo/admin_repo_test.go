package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/careline/clinic-backend/internal/domain"
)

// test DB helper
func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
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
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateAdmin_InsertsHashedRecord(t *testing.T) {
	db := newRepoDB(t, &domain.Admin{})
	ctx := context.Background()

	a, err := CreateAdmin(ctx, db, "root", "$2a$10$notarealhashbutlongenough")
	if err != nil {
		t.Fatalf("CreateAdmin error: %v", err)
	}
	if a.ID == "" || a.Username != "root" {
		t.Fatalf("unexpected admin: %+v", a)
	}
	if a.CreatedAt.IsZero() || time.Since(a.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", a.CreatedAt)
	}

	got, err := FindAdminByUsername(ctx, db, "root")
	if err != nil {
		t.Fatalf("FindAdminByUsername: %v", err)
	}
	if got.ID != a.ID || got.Password != a.Password {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, a)
	}
}

func TestCreateAdmin_DuplicateUsername(t *testing.T) {
	db := newRepoDB(t, &domain.Admin{})
	ctx := context.Background()

	if _, err := CreateAdmin(ctx, db, "root", "h1"); err != nil {
		t.Fatalf("first CreateAdmin: %v", err)
	}
	_, err := CreateAdmin(ctx, db, "root", "h2")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// the original record is untouched
	got, err := FindAdminByUsername(ctx, db, "root")
	if err != nil {
		t.Fatalf("FindAdminByUsername: %v", err)
	}
	if got.Password != "h1" {
		t.Fatalf("existing record modified: %+v", got)
	}
}

func TestFindAdminByUsername_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Admin{})

	_, err := FindAdminByUsername(context.Background(), db, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindAdminByUsername_CaseSensitive(t *testing.T) {
	db := newRepoDB(t, &domain.Admin{})
	ctx := context.Background()

	if _, err := CreateAdmin(ctx, db, "Root", "h"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if _, err := FindAdminByUsername(ctx, db, "root"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup should be exact-match, got %v", err)
	}
}

func TestCountAdmins(t *testing.T) {
	db := newRepoDB(t, &domain.Admin{})
	ctx := context.Background()

	n, err := CountAdmins(ctx, db)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 admins, got %d (%v)", n, err)
	}
	if _, err := CreateAdmin(ctx, db, "a", "h"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if _, err := CreateAdmin(ctx, db, "b", "h"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	n, err = CountAdmins(ctx, db)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 admins, got %d (%v)", n, err)
	}
}
