package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "silod.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, `{
		"opc": {
			"endpoint": "opc.tcp://plc.local:4840",
			"level_node_id": "ns=2;s=Silo.Level",
			"temperature_node_id": "ns=2;s=Machine.Temperature"
		},
		"monitor": {
			"poll_interval": "500ms"
		},
		"auth": {
			"jwt_secret": "super-secret"
		},
		"http": {
			"listen_addr": ":9090"
		}
	}`)

	var cfg SilodConfig
	require.NoError(t, LoadAndValidate(path, &cfg))

	assert.Equal(t, "opc.tcp://plc.local:4840", cfg.OPC.Endpoint)
	assert.Equal(t, Duration(500*time.Millisecond), cfg.Monitor.PollInterval)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)

	// Unset fields pick up defaults.
	assert.Equal(t, Duration(2*time.Second), cfg.Monitor.WarmupDelay)
	assert.Equal(t, 1000, cfg.Monitor.HistorySize)
	assert.Equal(t, Duration(15*time.Second), cfg.OPC.DiscoveryTimeout)
	assert.Equal(t, Duration(60*time.Second), cfg.OPC.SessionTimeout)
	assert.Equal(t, NullAsZero, cfg.OPC.NullReading)
	assert.Equal(t, Duration(8*time.Hour), cfg.Auth.TokenLifetime)
	assert.Equal(t, "silod", cfg.Auth.Issuer)
	assert.False(t, cfg.HTTP.RequireTelemetryAuth)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg SilodConfig

	err := LoadAndValidate(filepath.Join(t.TempDir(), "absent.json"), &cfg)
	assert.Error(t, err)
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	valid := func() SilodConfig {
		return SilodConfig{
			OPC: OPCConfig{
				Endpoint:        "opc.tcp://plc.local:4840",
				LevelNodeID:     "ns=2;s=Silo.Level",
				TemperatureNode: "ns=2;s=Machine.Temperature",
			},
			Auth: AuthConfig{JWTSecret: "secret"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*SilodConfig)
	}{
		{"missing endpoint", func(c *SilodConfig) { c.OPC.Endpoint = "" }},
		{"missing level node", func(c *SilodConfig) { c.OPC.LevelNodeID = "" }},
		{"missing temperature node", func(c *SilodConfig) { c.OPC.TemperatureNode = "" }},
		{"missing jwt secret", func(c *SilodConfig) { c.Auth.JWTSecret = "" }},
		{"bad null policy", func(c *SilodConfig) { c.OPC.NullReading = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Duration
		wantErr bool
	}{
		{"string form", `"1m30s"`, Duration(90 * time.Second), false},
		{"numeric nanoseconds", `1000000000`, Duration(time.Second), false},
		{"malformed string", `"not-a-duration"`, 0, true},
		{"wrong type", `[1]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}
