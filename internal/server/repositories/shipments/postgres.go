// Package shipments provides a PostgreSQL-backed repository for shipment
// records.
package shipments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts s. A taken shipment id yields common.ErrDuplicateShipmentID.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Shipment) error {
	query := `
		INSERT INTO shipments (shipment_id, po_number, route_details, device, ndc_number,
			serial_number, container_number, goods_type, expected_delivery_date,
			delivery_number, batch_id, origin, destination, shipment_description,
			status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ShipmentID, s.PONumber, s.RouteDetails, s.Device, s.NDCNumber,
		s.SerialNumber, s.ContainerNumber, s.GoodsType, s.ExpectedDeliveryDate,
		s.DeliveryNumber, s.BatchID, s.Origin, s.Destination, s.ShipmentDescription,
		s.Status, s.CreatedAt, s.CreatedBy)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicateShipmentID
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Exists reports whether a shipment with the given id is stored.
func (r *PostgresRepository) Exists(ctx context.Context, shipmentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipments WHERE shipment_id = $1)`, shipmentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// List returns all shipments, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Shipment, error) {
	query := `
		SELECT shipment_id, po_number, route_details, device, ndc_number,
			serial_number, container_number, goods_type, expected_delivery_date,
			delivery_number, batch_id, origin, destination, shipment_description,
			status, created_at, created_by, last_updated, updated_by
		FROM shipments
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Shipment
	for rows.Next() {
		var (
			s           models.Shipment
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(
			&s.ShipmentID, &s.PONumber, &s.RouteDetails, &s.Device, &s.NDCNumber,
			&s.SerialNumber, &s.ContainerNumber, &s.GoodsType, &s.ExpectedDeliveryDate,
			&s.DeliveryNumber, &s.BatchID, &s.Origin, &s.Destination, &s.ShipmentDescription,
			&s.Status, &s.CreatedAt, &s.CreatedBy, &lastUpdated, &s.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if lastUpdated.Valid {
			s.LastUpdated = &lastUpdated.Time
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update applies changes in one statement. Missing shipments yield
// common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, shipmentID string, changes Changes, updatedBy string, now time.Time) error {
	query := `
		UPDATE shipments
		SET status = $1, destination = $2, expected_delivery_date = $3, last_updated = $4, updated_by = $5
		WHERE shipment_id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		changes.Status, changes.Destination, changes.ExpectedDeliveryDate, now, updatedBy, shipmentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes a shipment. Missing shipments yield common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, shipmentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments WHERE shipment_id = $1`, shipmentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
