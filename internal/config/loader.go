package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load(configPath string) (*Config, error)
}

// DefaultLoader implements the Loader interface using file-based
// configuration.
type DefaultLoader struct {
	validator *validator.Validate
	loaders   map[string]func(string) (*Config, error)
}

// NewLoader creates a new configuration loader with default
// implementations.
func NewLoader() Loader {
	loader := &DefaultLoader{
		validator: validator.New(),
		loaders:   make(map[string]func(string) (*Config, error)),
	}

	loader.loaders[".yaml"] = loader.loadYAMLConfig
	loader.loaders[".yml"] = loader.loadYAMLConfig
	loader.loaders[".json"] = loader.loadJSONConfig
	loader.loaders[".toml"] = loader.loadTOMLConfig

	return loader
}

// Load loads and validates configuration from the specified path.
func (l *DefaultLoader) Load(configPath string) (*Config, error) {
	config, err := l.loadConfigByExtension(configPath)
	if err != nil {
		return nil, err
	}

	if err := l.validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadConfigByExtension loads configuration based on file extension
func (l *DefaultLoader) loadConfigByExtension(configPath string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(configPath))

	loader, ok := l.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	return loader(configPath)
}

// validateConfig validates the configuration structure
func (l *DefaultLoader) validateConfig(config *Config) error {
	if err := l.validator.Struct(config); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("config validation failed: %s", formatValidationErrors(validationErrors))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Ensure section names are set
	for _, sec := range config.Sections {
		if sec.Name == "" {
			sec.Name = sec.GetName()
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(errs validator.ValidationErrors) string {
	errMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"Field '%s' failed validation: %s (condition: %s)",
			err.Field(),
			err.Tag(),
			err.Param(),
		))
	}
	return strings.Join(errMsgs, "\n")
}

// loadJSONConfig loads configuration from a JSON file
func (l *DefaultLoader) loadJSONConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var config Config
	if err := json.Unmarshal([]byte(dataStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &config, nil
}

// loadTOMLConfig loads configuration from a TOML file
func (l *DefaultLoader) loadTOMLConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var config Config
	if err := toml.Unmarshal([]byte(dataStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &config, nil
}

// loadYAMLConfig loads configuration from a YAML file
func (l *DefaultLoader) loadYAMLConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(dataStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

// replaceEnvVariables replaces environment variables in the content
func replaceEnvVariables(content string) string {
	re := regexp.MustCompile(`\${(\w+)}`)
	return re.ReplaceAllStringFunc(content, func(s string) string {
		key := re.FindStringSubmatch(s)[1]
		return os.Getenv(key)
	})
}
