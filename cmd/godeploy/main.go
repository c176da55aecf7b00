package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/godeploy/godeploy/internal/platform/cli"
)

// Application encapsulates the godeploy CLI application
type Application struct {
	configPath    string
	sectionName   string
	envPaths      []string
	vaultPassword string
	generate      bool
	testMode      bool
	noColor       bool
	version       bool
	versionString string
}

// NewApplication creates a new Application instance with default values
func NewApplication() *Application {
	return &Application{
		configPath:    "deploy.yaml",
		versionString: "1.0.0",
	}
}

// ParseFlags parses the command-line flags and updates the Application
// fields accordingly.
func (app *Application) ParseFlags() {
	flag.StringVar(&app.configPath, "config", app.configPath, "Path to configuration file")
	flag.StringVar(&app.sectionName, "section", app.sectionName, "Name of specific section to deploy")

	var envPathsStr string
	flag.StringVar(&envPathsStr, "env", "", "Comma-separated paths to environment files")
	flag.StringVar(&app.vaultPassword, "vault-password", app.vaultPassword, "Password for Ansible Vault file")
	flag.BoolVar(&app.generate, "generate", app.generate, "Only generate the deployment file, do not deploy")
	flag.BoolVar(&app.testMode, "test", app.testMode, "Report planned actions without changing the remote side")
	flag.BoolVar(&app.noColor, "no-color", app.noColor, "Disable colored output")
	flag.BoolVar(&app.version, "version", app.version, "Show version information")

	flag.Parse()

	if envPathsStr != "" {
		app.envPaths = strings.Split(envPathsStr, ",")
	}
}

// Run executes the application
func (app *Application) Run() error {
	if app.version {
		fmt.Printf("godeploy version %s\n", app.versionString)
		return nil
	}

	return cli.Run(cli.Options{
		ConfigPath:    app.configPath,
		Section:       app.sectionName,
		EnvPaths:      app.envPaths,
		VaultPassword: app.vaultPassword,
		Generate:      app.generate,
		TestMode:      app.testMode,
		NoColor:       app.noColor,
	})
}

func main() {
	app := NewApplication()
	app.ParseFlags()

	if err := app.Run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
