// Package cli wires environment loading, configuration, transports and
// the deployment runner together behind the command-line surface.
package cli

import (
	"fmt"

	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/deploy"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/infrastructure/engine"
	"github.com/godeploy/godeploy/internal/infrastructure/env"
	"github.com/godeploy/godeploy/internal/infrastructure/server"
	"github.com/godeploy/godeploy/internal/logging"
)

// EnvLoader defines the interface for loading environment variables.
type EnvLoader interface {
	Load(path, vaultPassword string) error
}

// ConfigLoader defines the interface for loading configuration.
type ConfigLoader interface {
	Load(configPath string) (*config.Config, error)
}

// Options carries everything the command line can ask for in one run.
type Options struct {
	ConfigPath    string
	Section       string
	EnvPaths      []string
	VaultPassword string
	Generate      bool
	TestMode      bool
	NoColor       bool
	Hooks         map[string]deploy.HookSet
}

// App represents the main application structure that handles
// configuration loading and deployment execution.
type App struct {
	envLoader    EnvLoader
	configLoader ConfigLoader
	clients      deploy.ClientFactory
	engines      deploy.EngineFactory
}

// NewApp creates and returns a new App instance with default
// implementations for all dependencies.
func NewApp() *App {
	return &App{
		envLoader:    env.NewLoader(),
		configLoader: config.NewLoader(),
		clients:      server.NewFactory(),
		engines:      engine.NewFactory(),
	}
}

// NewAppWithDeps creates and returns a new App instance with custom
// dependencies.
func NewAppWithDeps(envLoader EnvLoader, configLoader ConfigLoader, clients deploy.ClientFactory, engines deploy.EngineFactory) *App {
	return &App{
		envLoader:    envLoader,
		configLoader: configLoader,
		clients:      clients,
		engines:      engines,
	}
}

// Run executes the application with the provided options.
func Run(opts Options) error {
	return NewApp().Run(opts)
}

// Run loads the environment and configuration, applies the command-line
// overrides and drives the deployment runner over the selected sections.
func (a *App) Run(opts Options) error {
	if err := a.loadEnvironments(opts.EnvPaths, opts.VaultPassword); err != nil {
		return fmt.Errorf("environment loading failed: %w", err)
	}

	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	applyOverrides(cfg, opts)

	sections, err := selectSections(cfg, opts.Section)
	if err != nil {
		return err
	}
	cfg.Sections = sections

	logger, err := newLogger(cfg, opts.NoColor)
	if err != nil {
		return err
	}
	defer logger.Close()

	runnerOpts := make([]deploy.RunnerOption, 0, len(opts.Hooks))
	for name, hooks := range opts.Hooks {
		runnerOpts = append(runnerOpts, deploy.WithHooks(name, hooks))
	}

	runner := deploy.NewRunner(cfg, logger, a.clients, a.engines, runnerOpts...)
	return runner.Run()
}

// loadEnvironments loads all environment files in declared order.
func (a *App) loadEnvironments(envPaths []string, vaultPassword string) error {
	for _, path := range envPaths {
		if err := a.envLoader.Load(path, vaultPassword); err != nil {
			return fmt.Errorf("failed to load environment file %s: %w", path, err)
		}
	}
	return nil
}

// applyOverrides folds command-line switches into the loaded
// configuration. Flags win over config file values.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Generate {
		cfg.Mode = section.ModeGenerate
	}
	if opts.TestMode {
		for _, sec := range cfg.Sections {
			sec.TestMode = true
		}
	}
}

// selectSections narrows the run down to one named section when
// requested.
func selectSections(cfg *config.Config, name string) ([]*section.Section, error) {
	if name == "" {
		return cfg.Sections, nil
	}

	for _, sec := range cfg.Sections {
		if sec.GetName() == name {
			return []*section.Section{sec}, nil
		}
	}

	return nil, fmt.Errorf("section '%s' not found", name)
}

// newLogger selects the log sink: a file when the configuration names
// one, the console otherwise. File sinks never render colors.
func newLogger(cfg *config.Config, noColor bool) (*logging.Logger, error) {
	if cfg.Log != "" {
		return logging.NewFile(cfg.Log)
	}
	return logging.NewConsole(cfg.Colors && !noColor), nil
}
