package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/objectstore"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/shipments"
)

// ExportLinkValidity is the lifetime of presigned export links.
const ExportLinkValidity = 15 * time.Minute

// ObjectStore is the storage used for exports.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ShipmentUpdate is the admin edit form for a shipment.
type ShipmentUpdate struct {
	Status               string `json:"status"`
	Destination          string `json:"destination"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
}

// Export describes an uploaded CSV export.
type Export struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ShipmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	logger      logging.Logger
	now         func() time.Time
}

func NewShipmentService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, logger logging.Logger) *ShipmentService {
	return &ShipmentService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "shipments"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new shipment with status Created.
func (s *ShipmentService) Create(ctx context.Context, actor string, in models.ShipmentInput) (*models.Shipment, error) {
	in = trimShipmentInput(in)
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}

	repo := s.repomanager.Shipments(s.db)

	exists, err := repo.Exists(ctx, in.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("error checking shipment: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateShipmentID
	}

	sh := &models.Shipment{
		ShipmentInput: in,
		Status:        models.ShipmentStatusCreated,
		CreatedAt:     s.now(),
		CreatedBy:     actor,
	}
	if err := repo.Create(ctx, sh); err != nil {
		if errors.Is(err, common.ErrDuplicateShipmentID) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating shipment: %w", err)
	}

	s.logger.Info(ctx, "shipment created", "shipment_id", in.ShipmentID, "by", actor)
	return sh, nil
}

func (s *ShipmentService) List(ctx context.Context) ([]*models.Shipment, error) {
	list, err := s.repomanager.Shipments(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing shipments: %w", err)
	}
	return list, nil
}

// Update changes status, destination and expected delivery date.
func (s *ShipmentService) Update(ctx context.Context, actor, shipmentID string, upd ShipmentUpdate) error {
	ch := shipments.Changes{
		Status:               strings.TrimSpace(upd.Status),
		Destination:          strings.TrimSpace(upd.Destination),
		ExpectedDeliveryDate: strings.TrimSpace(upd.ExpectedDeliveryDate),
	}
	if ch.Status == "" || ch.Destination == "" || ch.ExpectedDeliveryDate == "" {
		return fmt.Errorf("%w: status, destination and expected_delivery_date are required", common.ErrValidation)
	}

	if err := s.repomanager.Shipments(s.db).Update(ctx, shipmentID, ch, actor, s.now()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating shipment: %w", err)
	}
	s.logger.Info(ctx, "shipment updated", "shipment_id", shipmentID, "by", actor, "status", ch.Status)
	return nil
}

func (s *ShipmentService) Delete(ctx context.Context, actor, shipmentID string) error {
	if err := s.repomanager.Shipments(s.db).Delete(ctx, shipmentID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting shipment: %w", err)
	}
	s.logger.Info(ctx, "shipment deleted", "shipment_id", shipmentID, "by", actor)
	return nil
}

// Export writes every shipment to a CSV object and returns a presigned link
// to it.
func (s *ShipmentService) Export(ctx context.Context, actor string) (*Export, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	body, err := shipmentsCSV(list)
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	key := objectstore.RandomKey("exports", ".csv", s.now())
	if err := s.store.PutObject(ctx, key, "text/csv", body); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, ExportLinkValidity)
	if err != nil {
		return nil, fmt.Errorf("error signing export link: %w", err)
	}

	s.logger.Info(ctx, "shipments exported", "key", key, "rows", len(list), "by", actor)
	return &Export{Key: key, URL: url}, nil
}

var csvHeader = []string{
	"shipment_id", "po_number", "route_details", "device", "ndc_number", "serial_number",
	"container_number", "goods_type", "expected_delivery_date", "delivery_number", "batch_id",
	"origin", "destination", "shipment_description", "status", "created_at", "created_by",
	"last_updated", "updated_by",
}

func shipmentsCSV(list []*models.Shipment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, sh := range list {
		lastUpdated := ""
		if sh.LastUpdated != nil {
			lastUpdated = sh.LastUpdated.UTC().Format(common.DatetimeDisplayFormat)
		}
		rec := []string{
			sh.ShipmentID, sh.PONumber, sh.RouteDetails, sh.Device, sh.NDCNumber, sh.SerialNumber,
			sh.ContainerNumber, sh.GoodsType, sh.ExpectedDeliveryDate, sh.DeliveryNumber, sh.BatchID,
			sh.Origin, sh.Destination, sh.ShipmentDescription, sh.Status,
			sh.CreatedAt.UTC().Format(common.DatetimeDisplayFormat), sh.CreatedBy,
			lastUpdated, sh.UpdatedBy,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trimShipmentInput(in models.ShipmentInput) models.ShipmentInput {
	for _, f := range []*string{
		&in.ShipmentID, &in.PONumber, &in.RouteDetails, &in.Device, &in.NDCNumber, &in.SerialNumber,
		&in.ContainerNumber, &in.GoodsType, &in.ExpectedDeliveryDate, &in.DeliveryNumber, &in.BatchID,
		&in.Origin, &in.Destination, &in.ShipmentDescription,
	} {
		*f = strings.TrimSpace(*f)
	}
	return in
}
