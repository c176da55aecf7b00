// Package config provides loading, validation and programmatic
// construction of deployment configurations.
package config

import (
	"github.com/godeploy/godeploy/internal/core/section"
)

// Config is the process-wide deployment configuration. It is loaded once
// and treated as read-only for the lifetime of a run.
type Config struct {
	Mode     string             `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode,omitempty" validate:"omitempty,oneof=generate deploy"`
	Log      string             `yaml:"log,omitempty" json:"log,omitempty" toml:"log,omitempty"`
	TempDir  string             `yaml:"temp_dir,omitempty" json:"temp_dir,omitempty" toml:"temp_dir,omitempty"`
	Colors   bool               `yaml:"colors,omitempty" json:"colors,omitempty" toml:"colors,omitempty"`
	Sections []*section.Section `yaml:"sections" json:"sections" toml:"sections" validate:"required,dive"`
}
