package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/devicedata"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/logins"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/shipments"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// them against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Logins(db dbx.DBTX) logins.Repository
	Shipments(db dbx.DBTX) shipments.Repository
	DeviceData(db dbx.DBTX) devicedata.Repository
}
