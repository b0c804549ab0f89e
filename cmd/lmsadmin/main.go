// Command lmsadmin provisions the LMS admin portal: it runs migrations and
// creates the institutions and admin accounts the API has no endpoints for.
//
//	lmsadmin migrate up|down|status|version|reset
//	lmsadmin addinstitution -name "North College"
//	lmsadmin addadmin -institution 1 -email ada@north.test -first Ada -last Lovelace
//
// It reads the same environment (and .env) as the server.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/config"
	"github.com/sakif/lms-admin/internal/database"
	"github.com/sakif/lms-admin/internal/logger"
	"github.com/sakif/lms-admin/internal/repository/sqlstore"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("loading configuration")
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})

	pool, err := database.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}

	store := sqlstore.New(pool.DB())
	cli := commandLine{
		migrator:     pool,
		institutions: store,
		admins:       store,
		passwords:    auth.NewPasswordService(),
		out:          os.Stdout,
	}
	runErr := cli.run(ctx, os.Args)

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = pool.Close(closeCtx)

	if runErr != nil {
		if !errors.Is(runErr, errHelp) {
			log.Error().Err(runErr).Msg("command failed")
		}
		os.Exit(1)
	}
}
