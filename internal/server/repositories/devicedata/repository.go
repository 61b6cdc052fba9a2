package devicedata

import (
	"context"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// Repository reads tracker telemetry. It is read-only; ingestion happens
// outside this server.
type Repository interface {
	DistinctDeviceIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context, deviceID string, limit int) ([]*models.DeviceReading, error)
}
