package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Bridge.Host) == "" {
		return nil, fmt.Errorf("bridge.host must not be empty")
	}
	if cfg.Bridge.Port < 1 || cfg.Bridge.Port > 65535 {
		return nil, fmt.Errorf("bridge.port must be within 1-65535")
	}
	if cfg.Bridge.TimeoutMS < 0 {
		return nil, fmt.Errorf("bridge.timeout_ms must be >= 0")
	}

	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if _, ok := validLogLevels[level]; !ok {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	return warnings, nil
}
