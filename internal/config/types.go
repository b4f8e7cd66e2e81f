// Package config resolves, parses, validates, and defaults notifyctl configuration.
package config

// Config is the fully materialized runtime configuration used by notifyctl.
type Config struct {
	Bridge BridgeConfig `toml:"bridge"`
	Log    LogConfig    `toml:"log"`
}

// BridgeConfig locates the notification bridge and bounds each round trip.
type BridgeConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// TimeoutMS of zero disables the per-call deadline.
	TimeoutMS int `toml:"timeout_ms"`
}

// LogConfig controls the JSONL runtime log.
type LogConfig struct {
	Level string `toml:"level"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
