package grid

import "fmt"

// InvalidGridError is returned for structurally unusable elevation grids.
type InvalidGridError struct {
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("invalid grid: %s", e.Reason)
}

// InvalidConfigurationError names the configuration field that failed validation.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
