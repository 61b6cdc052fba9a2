// Package devicedata provides read access to stored device telemetry.
package devicedata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DistinctDeviceIDs returns every device id with at least one reading, sorted.
func (r *PostgresRepository) DistinctDeviceIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT device_id FROM device_data ORDER BY device_id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

// List returns up to limit readings, newest first. An empty deviceID
// matches all devices.
func (r *PostgresRepository) List(ctx context.Context, deviceID string, limit int) ([]*models.DeviceReading, error) {
	query := `
		SELECT device_id, battery_level, first_sensor_temperature, route_from, route_to, ts
		FROM device_data
		WHERE ($1 = '' OR device_id = $1)
		ORDER BY ts DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.DeviceReading
	for rows.Next() {
		d := &models.DeviceReading{}
		if err := rows.Scan(&d.DeviceID, &d.BatteryLevel, &d.FirstSensorTemperature,
			&d.RouteFrom, &d.RouteTo, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
