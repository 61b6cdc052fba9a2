package models

import "time"

// DeviceReading is one telemetry sample reported by a shipment tracker.
type DeviceReading struct {
	DeviceID               string    `json:"device_id"`
	BatteryLevel           float64   `json:"battery_level"`
	FirstSensorTemperature float64   `json:"first_sensor_temperature"`
	RouteFrom              string    `json:"route_from"`
	RouteTo                string    `json:"route_to"`
	Timestamp              time.Time `json:"timestamp"`
}
