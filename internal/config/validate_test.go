package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty host", mutate: func(c *Config) { c.Bridge.Host = "  " }, wantErr: "bridge.host"},
		{name: "port zero", mutate: func(c *Config) { c.Bridge.Port = 0 }, wantErr: "bridge.port"},
		{name: "port too large", mutate: func(c *Config) { c.Bridge.Port = 65536 }, wantErr: "bridge.port"},
		{name: "negative timeout", mutate: func(c *Config) { c.Bridge.TimeoutMS = -1 }, wantErr: "bridge.timeout_ms"},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDefaultHasNoTimeout(t *testing.T) {
	cfg := Default()
	require.Equal(t, 0, cfg.Bridge.TimeoutMS)

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Empty(t, warnings)
}
