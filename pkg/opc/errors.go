package opc

import (
	"errors"
	"fmt"
)

var (
	ErrDisconnected     = errors.New("device manually disconnected")
	ErrNullReading      = errors.New("device returned a null value")
	ErrNoUsableEndpoint = errors.New("no usable endpoint discovered")
	ErrEmptyReadResult  = errors.New("read returned no results")
	ErrUnsupportedType  = errors.New("unsupported variant type")
)

// OPCError wraps OPC UA errors with the operation and endpoint they
// occurred against.
type OPCError struct {
	Op       string
	Endpoint string
	Wrapped  error
}

func (e *OPCError) Error() string {
	return fmt.Sprintf("OPC UA %s failed for %s: %v", e.Op, e.Endpoint, e.Wrapped)
}

func (e *OPCError) Unwrap() error {
	return e.Wrapped
}
