// Package config pkg/config/types.go
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

const (
	defaultPollInterval     = Duration(1 * time.Second)
	defaultWarmupDelay      = Duration(2 * time.Second)
	defaultDiscoveryTimeout = Duration(15 * time.Second)
	defaultSessionTimeout   = Duration(60 * time.Second)
	defaultHistorySize      = 1000
	defaultTokenLifetime    = Duration(8 * time.Hour)
	defaultListenAddr       = ":8080"
)

// Null-reading policies for the OPC UA data source. The controller
// occasionally returns an empty variant for a live node; "zero" treats
// that as a legitimate 0.0 reading, "error" fails the read instead.
const (
	NullAsZero  = "zero"
	NullAsError = "error"
)

// OPCConfig describes the controller connection and the two monitored nodes.
type OPCConfig struct {
	Endpoint         string   `json:"endpoint"`            // e.g., opc.tcp://plc:4840
	ApplicationName  string   `json:"application_name"`
	LevelNodeID      string   `json:"level_node_id"`       // silo fill level, percent
	TemperatureNode  string   `json:"temperature_node_id"` // machine temperature, celsius
	DiscoveryTimeout Duration `json:"discovery_timeout"`
	SessionTimeout   Duration `json:"session_timeout"`
	NullReading      string   `json:"null_reading"` // "zero" or "error"
}

// MonitorConfig controls the poll loop and history retention.
type MonitorConfig struct {
	PollInterval Duration `json:"poll_interval"`
	WarmupDelay  Duration `json:"warmup_delay"`
	HistorySize  int      `json:"history_size"`
}

// AuthConfig holds JWT signing material and token policy.
type AuthConfig struct {
	JWTSecret     string   `json:"jwt_secret"`
	Issuer        string   `json:"issuer"`
	Audience      string   `json:"audience"`
	TokenLifetime Duration `json:"token_lifetime"`
}

// HTTPConfig describes the query/control surface.
type HTTPConfig struct {
	ListenAddr string `json:"listen_addr"`
	// RequireTelemetryAuth gates the read-only telemetry endpoints and
	// the live channel behind a token. Off by default: telemetry is
	// treated as low-sensitivity. Device control and user administration
	// always require a token.
	RequireTelemetryAuth bool `json:"require_telemetry_auth"`
}

// SilodConfig is the full configuration for the silod service.
type SilodConfig struct {
	OPC     OPCConfig     `json:"opc"`
	Monitor MonitorConfig `json:"monitor"`
	Auth    AuthConfig    `json:"auth"`
	HTTP    HTTPConfig    `json:"http"`
}

// Validate implements the Validator interface.
func (c *SilodConfig) Validate() error {
	if c.OPC.Endpoint == "" {
		return errEndpointRequired
	}

	if c.OPC.LevelNodeID == "" {
		return errLevelNodeRequired
	}

	if c.OPC.TemperatureNode == "" {
		return errTemperatureNodeRequired
	}

	if c.Auth.JWTSecret == "" {
		return errJWTSecretRequired
	}

	switch c.OPC.NullReading {
	case "", NullAsZero, NullAsError:
	default:
		return fmt.Errorf("%w: %q", errInvalidNullReading, c.OPC.NullReading)
	}

	c.applyDefaults()

	return nil
}

func (c *SilodConfig) applyDefaults() {
	if c.OPC.ApplicationName == "" {
		c.OPC.ApplicationName = "silod"
	}

	if c.OPC.DiscoveryTimeout == 0 {
		c.OPC.DiscoveryTimeout = defaultDiscoveryTimeout
	}

	if c.OPC.SessionTimeout == 0 {
		c.OPC.SessionTimeout = defaultSessionTimeout
	}

	if c.OPC.NullReading == "" {
		c.OPC.NullReading = NullAsZero
	}

	if c.Monitor.PollInterval == 0 {
		c.Monitor.PollInterval = defaultPollInterval
	}

	if c.Monitor.WarmupDelay == 0 {
		c.Monitor.WarmupDelay = defaultWarmupDelay
	}

	if c.Monitor.HistorySize <= 0 {
		c.Monitor.HistorySize = defaultHistorySize
	}

	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "silod"
	}

	if c.Auth.Audience == "" {
		c.Auth.Audience = "silo-dashboard"
	}

	if c.Auth.TokenLifetime == 0 {
		c.Auth.TokenLifetime = defaultTokenLifetime
	}

	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = defaultListenAddr
	}
}
