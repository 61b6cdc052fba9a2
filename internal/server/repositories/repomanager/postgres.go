// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/migrations"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/devicedata"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/logins"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/shipments"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Logins returns a logins.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Logins(db dbx.DBTX) logins.Repository {
	return logins.NewPostgresRepository(db)
}

// Shipments returns a shipments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Shipments(db dbx.DBTX) shipments.Repository {
	return shipments.NewPostgresRepository(db)
}

// DeviceData returns a devicedata.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) DeviceData(db dbx.DBTX) devicedata.Repository {
	return devicedata.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
