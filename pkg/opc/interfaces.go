// Package opc pkg/opc/interfaces.go

package opc

import (
	"context"

	"github.com/Aboubacarelhacen/silo/pkg/models"
)

//go:generate mockgen -destination=mock_opc.go -package=opc github.com/Aboubacarelhacen/silo/pkg/opc Client

// Client is one live session to the controller. Implementations are not
// required to be safe for concurrent use; the SessionManager serializes
// lifecycle transitions around them.
type Client interface {
	// ReadValue issues a single synchronous read of one addressed point.
	ReadValue(ctx context.Context, nodeID string) (*Reading, error)
	// Close terminates the session.
	Close(ctx context.Context) error
}

// Reading is the result of one point read. Null is set when the device
// returned an empty variant for an otherwise-good status.
type Reading struct {
	Value float64
	Null  bool
}

// Dialer establishes a fresh session to the controller.
type Dialer func(ctx context.Context) (Client, error)

// ConnectionManager is the optional management capability a data source
// may offer. The HTTP layer discovers it with a type assertion.
type ConnectionManager interface {
	Connect(ctx context.Context) error
	Disconnect()
	Status() models.ConnectionState
}
