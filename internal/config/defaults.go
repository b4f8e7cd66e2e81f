package config

import "github.com/rbright/notifyctl/internal/protocol"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Host:      protocol.DefaultHost,
			Port:      protocol.DefaultPort,
			TimeoutMS: 0,
		},
		Log: LogConfig{Level: "info"},
	}
}
