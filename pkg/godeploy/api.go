// Package godeploy provides a public API for synchronizing local file
// trees to FTP and SFTP servers. It exposes simplified entry points for
// configuration loading, programmatic configuration building and
// deployment execution while hiding implementation details, so users
// can embed deployments into their own applications.
package godeploy

import (
	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/deploy"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/infrastructure/engine"
	"github.com/godeploy/godeploy/internal/infrastructure/server"
	"github.com/godeploy/godeploy/internal/logging"
	"github.com/godeploy/godeploy/internal/platform/cli"
)

// Config represents a deployment configuration
type Config = config.Config

// Section represents one deployed tree and its remote destination
type Section = section.Section

// Builder represents a configuration builder
type Builder = config.Builder

// Hook references a callback to run around a section's transfer
type Hook = deploy.Hook

// HookSet carries a section's before and after callback lists
type HookSet = deploy.HookSet

// HookContext is the runtime context passed to every hook invocation
type HookContext = deploy.HookContext

// HookFunc is the signature hook callbacks must satisfy
type HookFunc = deploy.HookFunc

// Options carries the run parameters accepted by Run
type Options = cli.Options

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return config.NewBuilder()
}

// Run executes a deployment with the specified options
func Run(opts Options) error {
	return cli.Run(opts)
}

// LoadConfig loads a configuration file
func LoadConfig(configPath string) (*Config, error) {
	loader := config.NewLoader()
	return loader.Load(configPath)
}

// RunConfig executes the deployment described by an already built
// configuration. Hooks are attached by section name.
func RunConfig(cfg *Config, hooks map[string]HookSet) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	opts := make([]deploy.RunnerOption, 0, len(hooks))
	for name, set := range hooks {
		opts = append(opts, deploy.WithHooks(name, set))
	}

	runner := deploy.NewRunner(cfg, logger, server.NewFactory(), engine.NewFactory(), opts...)
	return runner.Run()
}

func newLogger(cfg *Config) (*logging.Logger, error) {
	if cfg.Log != "" {
		return logging.NewFile(cfg.Log)
	}
	return logging.NewConsole(cfg.Colors), nil
}
