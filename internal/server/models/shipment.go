package models

import "time"

// ShipmentStatusCreated is assigned to new shipments.
const ShipmentStatusCreated = "Created"

// ShipmentInput carries the user-supplied fields of a new shipment.
type ShipmentInput struct {
	ShipmentID           string `json:"shipment_id"`
	PONumber             string `json:"po_number"`
	RouteDetails         string `json:"route_details"`
	Device               string `json:"device"`
	NDCNumber            string `json:"ndc_number"`
	SerialNumber         string `json:"serial_number"`
	ContainerNumber      string `json:"container_number"`
	GoodsType            string `json:"goods_type"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
	DeliveryNumber       string `json:"delivery_number"`
	BatchID              string `json:"batch_id"`
	Origin               string `json:"origin"`
	Destination          string `json:"destination"`
	ShipmentDescription  string `json:"shipment_description"`
}

// MissingFields returns the JSON names of required fields left empty.
func (in ShipmentInput) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"shipment_id", in.ShipmentID},
		{"po_number", in.PONumber},
		{"route_details", in.RouteDetails},
		{"device", in.Device},
		{"ndc_number", in.NDCNumber},
		{"serial_number", in.SerialNumber},
		{"container_number", in.ContainerNumber},
		{"goods_type", in.GoodsType},
		{"expected_delivery_date", in.ExpectedDeliveryDate},
		{"delivery_number", in.DeliveryNumber},
		{"batch_id", in.BatchID},
		{"origin", in.Origin},
		{"destination", in.Destination},
		{"shipment_description", in.ShipmentDescription},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Shipment struct {
	ShipmentInput
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
}
