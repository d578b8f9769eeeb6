package loottypes

import "fmt"

// ConfigError marks a malformed weight table, pool, or chest definition.
// It indicates a data-authoring bug and must fail the containing request
// loudly rather than being silently defaulted.
type ConfigError struct {
	Pool   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid loot configuration for %q: %s", e.Pool, e.Reason)
}
