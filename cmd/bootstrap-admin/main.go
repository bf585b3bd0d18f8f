// Command bootstrap-admin creates the initial admin account. It is safe to
// run repeatedly: when the username already exists it reports that and exits
// zero without touching the stored credentials.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/config"
	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/repo"
	"github.com/careline/clinic-backend/internal/services"
	"github.com/careline/clinic-backend/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	var (
		username = flag.String("username", "", "admin username (or ADMIN_USERNAME)")
		password = flag.String("password", "", "admin password (or ADMIN_PASSWORD)")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	user := sysutil.FirstNonEmpty(*username, os.Getenv("ADMIN_USERNAME"))
	pass := sysutil.FirstNonEmpty(*password, os.Getenv("ADMIN_PASSWORD"))
	if user == "" || pass == "" {
		log.Fatal().Msg("username and password are required (flags or ADMIN_USERNAME/ADMIN_PASSWORD)")
	}

	cfg := config.MustLoad()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := services.NewAuthService(db, adminRepo{}, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	admin, err := svc.Bootstrap(context.Background(), user, pass)
	switch {
	case errors.Is(err, repo.ErrDuplicateUsername):
		fmt.Printf("admin %q already exists, nothing to do\n", user)
	case err != nil:
		log.Fatal().Err(err).Msg("bootstrap failed")
	default:
		fmt.Printf("admin %q created (id %s)\n", admin.Username, admin.ID)
	}
}

// adminRepo adapts the repo package's free functions to the service interface.
type adminRepo struct{}

func (adminRepo) FindAdminByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Admin, error) {
	return repo.FindAdminByUsername(ctx, db, username)
}

func (adminRepo) CreateAdmin(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.Admin, error) {
	return repo.CreateAdmin(ctx, db, username, passwordHash)
}
