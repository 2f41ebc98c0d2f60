// Package opc pkg/opc/session.go

package opc

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const closeTimeout = 5 * time.Second

// SessionManager owns the lifecycle of the connection to the controller.
// The state mutex is only ever held for fast bookkeeping; session
// establishment runs through a singleflight group so concurrent callers
// share one dial attempt without blocking status reads behind slow I/O.
type SessionManager struct {
	cfg  config.OPCConfig
	dial Dialer

	mu      sync.Mutex
	session Client
	manual  bool
	lastErr string

	flight singleflight.Group
}

// NewSessionManager creates a session manager for the configured endpoint.
// The dialer is injectable for tests; pass NewDialer(cfg) in production.
func NewSessionManager(cfg config.OPCConfig, dial Dialer) *SessionManager {
	return &SessionManager{
		cfg:  cfg,
		dial: dial,
	}
}

// EnsureConnected establishes a session if none is live. A manual
// disconnect makes this a no-op: the manager is idle, not failing.
// Establishment failures are recorded for status reporting and returned;
// retry cadence is the caller's decision.
func (m *SessionManager) EnsureConnected(ctx context.Context) error {
	m.mu.Lock()
	if m.manual || m.session != nil {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	_, err, _ := m.flight.Do("dial", func() (interface{}, error) {
		// Re-check: another caller may have finished a dial, or an
		// operator may have disconnected while we waited for the flight.
		m.mu.Lock()
		if m.manual || m.session != nil {
			m.mu.Unlock()
			return nil, nil
		}
		m.mu.Unlock()

		log.Printf("opc: establishing session to %s", m.cfg.Endpoint)

		client, err := m.dial(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()

		if err != nil {
			m.lastErr = err.Error()
			return nil, err
		}

		if m.manual {
			// Disconnect raced the dial; the fresh session is unwanted.
			go closeClient(client)
			return nil, nil
		}

		m.session = client
		m.lastErr = ""

		log.Printf("opc: session established to %s", m.cfg.Endpoint)

		return nil, nil
	})

	return err
}

// ReadValue reads one addressed point through the live session. On any
// read error the session is torn down so the next call dials fresh; a
// broken session is never reused. A null value follows the configured
// policy: a legitimate zero reading by default, or an error.
func (m *SessionManager) ReadValue(ctx context.Context, nodeID string) (float64, error) {
	if err := m.EnsureConnected(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	session := m.session
	manual := m.manual
	m.mu.Unlock()

	if manual || session == nil {
		return 0, ErrDisconnected
	}

	reading, err := session.ReadValue(ctx, nodeID)
	if err != nil {
		m.invalidate(session, err)
		return 0, err
	}

	if reading.Null {
		if m.cfg.NullReading == config.NullAsError {
			return 0, &OPCError{Op: "read", Endpoint: m.cfg.Endpoint, Wrapped: ErrNullReading}
		}

		log.Printf("opc: node %s returned null, treating as zero", nodeID)

		return 0, nil
	}

	return reading.Value, nil
}

// ReadLevel reads the silo fill level in percent.
func (m *SessionManager) ReadLevel(ctx context.Context) (float64, error) {
	return m.ReadValue(ctx, m.cfg.LevelNodeID)
}

// ReadTemperature reads the machine temperature in celsius.
func (m *SessionManager) ReadTemperature(ctx context.Context) (float64, error) {
	return m.ReadValue(ctx, m.cfg.TemperatureNode)
}

// Connect clears a manual disconnect and forces session creation.
func (m *SessionManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.manual = false
	m.mu.Unlock()

	return m.EnsureConnected(ctx)
}

// Disconnect sets the manual-disconnect flag and discards any live
// session. Idempotent.
func (m *SessionManager) Disconnect() {
	m.mu.Lock()
	m.manual = true
	session := m.session
	m.session = nil
	m.mu.Unlock()

	if session != nil {
		log.Printf("opc: disconnecting from %s", m.cfg.Endpoint)
		closeClient(session)
	}
}

// Status returns a point-in-time snapshot of the connection state.
// Connected is derived from session presence and the manual flag rather
// than stored separately; read failures discard the session, so a held
// handle is a live one.
func (m *SessionManager) Status() models.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.ConnectionState{
		Connected:            m.session != nil && !m.manual,
		ManuallyDisconnected: m.manual,
		LastError:            m.lastErr,
		Endpoint:             m.cfg.Endpoint,
	}
}

// invalidate discards a session after a read failure. Only the session
// that actually errored is discarded; a successor dialed by another
// caller is left alone.
func (m *SessionManager) invalidate(session Client, cause error) {
	m.mu.Lock()
	if m.session != session {
		m.mu.Unlock()
		return
	}

	m.session = nil
	m.lastErr = cause.Error()
	m.mu.Unlock()

	log.Printf("opc: invalidating session after read error: %v", cause)
	closeClient(session)
}

func closeClient(c Client) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := c.Close(ctx); err != nil {
		log.Printf("opc: error closing session: %v", err)
	}
}
