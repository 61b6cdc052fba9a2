// Command admin creates the first scmexpert administrator, or promotes an
// existing user, against the configured database.
//
//	admin -d postgres://... -name "Root Admin" -email root@example.com
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/scmexpert/internal/admin"
	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/config"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	opts, err := admin.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	db, err := dbx.Open(ctx, "pgx", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	issuer, err := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.SigningAlgorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		return err
	}

	users, err := services.NewUserService(db, m, auth.NewBcryptHasher(cfg.BcryptCost), issuer, logger)
	if err != nil {
		return err
	}

	return admin.Run(ctx, users, opts, bufio.NewReader(os.Stdin), os.Stdout)
}
