// Command repair-doctor-index fixes doctor records that block the unique
// email index: empty strings become NULL, and duplicate emails keep only the
// oldest record. By default it only reports what it would change; pass
// -confirm to apply the changes and rebuild the index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careline/clinic-backend/internal/config"
	"github.com/careline/clinic-backend/internal/repo"
)

func main() {
	_ = godotenv.Load()

	confirm := flag.Bool("confirm", false, "apply the repairs (default is a dry run)")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.MustLoad()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}

	ctx := context.Background()

	empties, err := repo.FindDoctorsWithEmptyEmail(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("scan for empty emails failed")
	}
	dupes, err := repo.FindDuplicateEmailDoctors(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("scan for duplicate emails failed")
	}

	fmt.Printf("doctors with empty-string email: %d\n", len(empties))
	for _, d := range empties {
		fmt.Printf("  %s  %s\n", d.ID, d.Name)
	}
	fmt.Printf("doctors with a duplicate email (oldest kept): %d\n", len(dupes))
	for _, d := range dupes {
		email := ""
		if d.Email != nil {
			email = *d.Email
		}
		fmt.Printf("  %s  %s  <%s>\n", d.ID, d.Name, email)
	}

	if !*confirm {
		fmt.Println("dry run, no changes made; rerun with -confirm to apply")
		return
	}

	normalized, err := repo.NormalizeEmptyEmails(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("normalize empty emails failed")
	}
	fmt.Printf("normalized %d empty emails to NULL\n", normalized)

	if len(dupes) > 0 {
		ids := make([]string, 0, len(dupes))
		for _, d := range dupes {
			ids = append(ids, d.ID)
		}
		deleted, err := repo.DeleteDoctorsByID(ctx, db, ids)
		if err != nil {
			log.Fatal().Err(err).Msg("delete duplicate doctors failed")
		}
		fmt.Printf("deleted %d duplicate doctors\n", deleted)
	}

	if err := repo.RebuildDoctorEmailIndex(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("rebuild unique email index failed")
	}
	fmt.Println("unique email index rebuilt")
}
