// Package models pkg/models/samples.go
package models

import "time"

// Stream names for the two monitored measurements.
const (
	StreamLevel       = "level"
	StreamTemperature = "temperature"
)

// Live-channel topics, one per measurement.
const (
	TopicLevelUpdated       = "level-updated"
	TopicTemperatureUpdated = "temperature-updated"
)

// StatusLevel is a 3-level classification of a measurement value.
type StatusLevel string

const (
	// Silo fill level.
	StatusNormal   StatusLevel = "Normal"
	StatusLow      StatusLevel = "Low"
	StatusCritical StatusLevel = "Critical"

	// Machine temperature.
	StatusCool StatusLevel = "Cool"
	StatusHigh StatusLevel = "High"
)

// Sample is one timestamped scalar reading of a measurement. Immutable
// once created.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ConnectionState is a snapshot of the device session's health.
type ConnectionState struct {
	Connected            bool   `json:"connected"`
	ManuallyDisconnected bool   `json:"manuallyDisconnected"`
	LastError            string `json:"lastError,omitempty"`
	Endpoint             string `json:"endpoint"`
}

// LevelUpdate is the live-channel payload for the level stream.
type LevelUpdate struct {
	LevelPercent float64     `json:"levelPercent"`
	Status       StatusLevel `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
}

// TemperatureUpdate is the live-channel payload for the temperature stream.
type TemperatureUpdate struct {
	TemperatureC float64     `json:"temperatureC"`
	Status       StatusLevel `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
}
