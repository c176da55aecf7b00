// Package deploy implements the deployment orchestrator: job assembly,
// filter chains, hook dispatch and the run loop driving each configured
// section.
package deploy

import "fmt"

// ConfigError represents a fatal configuration problem. It is raised
// before any I/O happens for the affected section and aborts the run.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// NewRemoteURLError creates the ConfigError raised when a section's
// remote URL is missing or does not parse.
func NewRemoteURLError(cause error) *ConfigError {
	return &ConfigError{Message: "Missing or invalid 'remote' URL in config", Cause: cause}
}

// ConnectionError represents a failure to reach a section's remote
// server.
type ConnectionError struct {
	Section string
	Cause   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to '%s' failed: %v", e.Section, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }
