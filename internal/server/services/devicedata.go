package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
)

// DeviceDataLimit caps the readings returned per request.
const DeviceDataLimit = 50

// DeviceData is the telemetry view: recent readings plus the device ids
// available for filtering.
type DeviceData struct {
	Readings  []*models.DeviceReading `json:"readings"`
	DeviceIDs []string                `json:"device_ids"`
	Selected  string                  `json:"selected_device_id,omitempty"`
}

type DeviceDataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDeviceDataService(db *sql.DB, m repomanager.RepositoryManager) *DeviceDataService {
	return &DeviceDataService{db: db, repomanager: m}
}

// List returns up to DeviceDataLimit readings, newest first, optionally for
// a single device.
func (s *DeviceDataService) List(ctx context.Context, deviceID string) (*DeviceData, error) {
	deviceID = strings.TrimSpace(deviceID)
	repo := s.repomanager.DeviceData(s.db)

	ids, err := repo.DistinctDeviceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing devices: %w", err)
	}

	readings, err := repo.List(ctx, deviceID, DeviceDataLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing readings: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}
	if readings == nil {
		readings = []*models.DeviceReading{}
	}
	return &DeviceData{Readings: readings, DeviceIDs: ids, Selected: deviceID}, nil
}
