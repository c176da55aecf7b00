package main

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	oldFlagCommandLine := flag.CommandLine
	defer func() {
		os.Args = oldArgs
		flag.CommandLine = oldFlagCommandLine
	}()

	tests := []struct {
		name         string
		args         []string
		wantConfig   string
		wantSection  string
		wantEnv      []string
		wantPassword string
		wantGenerate bool
		wantTest     bool
		wantNoColor  bool
		wantVersion  bool
	}{
		{
			name:       "default values",
			args:       []string{"godeploy"},
			wantConfig: "deploy.yaml",
		},
		{
			name:         "all flags set",
			args:         []string{"godeploy", "-config", "custom.toml", "-section", "production", "-env", "prod.env", "-vault-password", "secret", "-generate", "-test", "-no-color"},
			wantConfig:   "custom.toml",
			wantSection:  "production",
			wantEnv:      []string{"prod.env"},
			wantPassword: "secret",
			wantGenerate: true,
			wantTest:     true,
			wantNoColor:  true,
		},
		{
			name:        "version flag",
			args:        []string{"godeploy", "-version"},
			wantConfig:  "deploy.yaml",
			wantVersion: true,
		},
		{
			name:       "multiple env files",
			args:       []string{"godeploy", "-env", "dev.env,prod.env,secrets.env"},
			wantConfig: "deploy.yaml",
			wantEnv:    []string{"dev.env", "prod.env", "secrets.env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
			os.Args = tt.args

			app := NewApplication()
			app.ParseFlags()

			assert.Equal(t, tt.wantConfig, app.configPath, "configPath mismatch")
			assert.Equal(t, tt.wantSection, app.sectionName, "sectionName mismatch")
			assert.Equal(t, tt.wantEnv, app.envPaths, "envPaths mismatch")
			assert.Equal(t, tt.wantPassword, app.vaultPassword, "vaultPassword mismatch")
			assert.Equal(t, tt.wantGenerate, app.generate, "generate mismatch")
			assert.Equal(t, tt.wantTest, app.testMode, "testMode mismatch")
			assert.Equal(t, tt.wantNoColor, app.noColor, "noColor mismatch")
			assert.Equal(t, tt.wantVersion, app.version, "version mismatch")
		})
	}
}

func TestRunVersionFlag(t *testing.T) {
	app := &Application{
		version:       true,
		versionString: "1.0.0-test",
	}

	assert.NoError(t, app.Run())
}
