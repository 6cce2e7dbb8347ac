package bufalloc

import "fmt"

// ConfigError reports a malformed argument to one of the InitXxx
// constructors — never a runtime allocation failure, which stays on the
// (Address, bool) path.
type ConfigError struct {
	Type    string // "bump", "stack", "pool", or "heap"
	Field   string
	Value   int
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bufalloc: invalid %s config: %s=%d: %s", e.Type, e.Field, e.Value, e.Message)
}
