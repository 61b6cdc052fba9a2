package shipments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// Repository persists shipment records keyed by shipment id.
type Repository interface {
	Create(ctx context.Context, s *models.Shipment) error
	Exists(ctx context.Context, shipmentID string) (bool, error)
	List(ctx context.Context) ([]*models.Shipment, error)
	Update(ctx context.Context, shipmentID string, changes Changes, updatedBy string, now time.Time) error
	Delete(ctx context.Context, shipmentID string) error
}

// Changes is the admin-editable subset of a shipment.
type Changes struct {
	Status               string
	Destination          string
	ExpectedDeliveryDate string
}
