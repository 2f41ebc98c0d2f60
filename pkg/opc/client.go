// Package opc pkg/opc/client.go

package opc

import (
	"context"
	"fmt"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/Aboubacarelhacen/silo/pkg/config"
)

// opcuaClient implements the Client interface using gopcua.
type opcuaClient struct {
	client   *opcua.Client
	endpoint string
}

// NewDialer returns a Dialer that discovers the configured endpoint and
// establishes an anonymous session against it. Discovery is bounded by
// the configured discovery timeout; the session timeout is negotiated
// with the server.
func NewDialer(cfg config.OPCConfig) Dialer {
	return func(ctx context.Context) (Client, error) {
		dctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DiscoveryTimeout))
		defer cancel()

		endpoints, err := opcua.GetEndpoints(dctx, cfg.Endpoint)
		if err != nil {
			return nil, &OPCError{Op: "discover", Endpoint: cfg.Endpoint, Wrapped: err}
		}

		ep := opcua.SelectEndpoint(endpoints, "None", ua.MessageSecurityModeNone)
		if ep == nil {
			return nil, &OPCError{Op: "discover", Endpoint: cfg.Endpoint, Wrapped: ErrNoUsableEndpoint}
		}

		opts := []opcua.Option{
			opcua.SecurityFromEndpoint(ep, ua.UserTokenTypeAnonymous),
			opcua.ApplicationName(cfg.ApplicationName),
			opcua.SessionTimeout(time.Duration(cfg.SessionTimeout)),
			opcua.AutoReconnect(false),
		}

		client, err := opcua.NewClient(cfg.Endpoint, opts...)
		if err != nil {
			return nil, &OPCError{Op: "connect", Endpoint: cfg.Endpoint, Wrapped: err}
		}

		if err := client.Connect(ctx); err != nil {
			return nil, &OPCError{Op: "connect", Endpoint: cfg.Endpoint, Wrapped: err}
		}

		return &opcuaClient{client: client, endpoint: cfg.Endpoint}, nil
	}
}

// ReadValue implements the Client interface.
func (c *opcuaClient) ReadValue(ctx context.Context, nodeID string) (*Reading, error) {
	id, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, &OPCError{Op: "read", Endpoint: c.endpoint,
			Wrapped: fmt.Errorf("parse node id %q: %w", nodeID, err)}
	}

	req := &ua.ReadRequest{
		TimestampsToReturn: ua.TimestampsToReturnNeither,
		NodesToRead: []*ua.ReadValueID{
			{NodeID: id, AttributeID: ua.AttributeIDValue},
		},
	}

	resp, err := c.client.Read(ctx, req)
	if err != nil {
		return nil, &OPCError{Op: "read", Endpoint: c.endpoint, Wrapped: err}
	}

	if len(resp.Results) == 0 {
		return nil, &OPCError{Op: "read", Endpoint: c.endpoint, Wrapped: ErrEmptyReadResult}
	}

	result := resp.Results[0]
	if result.Status != ua.StatusOK {
		return nil, &OPCError{Op: "read", Endpoint: c.endpoint,
			Wrapped: fmt.Errorf("bad status for node %s: %s", nodeID, result.Status)}
	}

	if result.Value == nil || result.Value.Value() == nil {
		return &Reading{Null: true}, nil
	}

	fv, ok := variantToFloat(result.Value)
	if !ok {
		return nil, &OPCError{Op: "read", Endpoint: c.endpoint,
			Wrapped: fmt.Errorf("%w: node %s holds %T", ErrUnsupportedType, nodeID, result.Value.Value())}
	}

	return &Reading{Value: fv}, nil
}

// Close implements the Client interface.
func (c *opcuaClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

func variantToFloat(v *ua.Variant) (float64, bool) {
	switch val := v.Value().(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int8:
		return float64(val), true
	case uint8:
		return float64(val), true
	case int16:
		return float64(val), true
	case uint16:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
