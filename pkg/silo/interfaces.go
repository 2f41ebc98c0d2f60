// Package silo pkg/silo/interfaces.go

package silo

import "context"

// DataSource reads the two monitored measurements from the controller.
// The production implementation is *opc.SessionManager; it additionally
// implements opc.ConnectionManager for operator-triggered control.
type DataSource interface {
	// ReadLevel returns the silo fill level in percent.
	ReadLevel(ctx context.Context) (float64, error)
	// ReadTemperature returns the machine temperature in celsius.
	ReadTemperature(ctx context.Context) (float64, error)
}

// Publisher delivers a payload to every live subscriber of a topic.
type Publisher interface {
	Publish(topic string, payload interface{})
}
