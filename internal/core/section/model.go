// Package section defines the deployment section descriptor and the
// settings derived from it.
package section

import (
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
)

// Run modes a section can force regardless of the global mode.
const (
	ModeGenerate = "generate"
	ModeDeploy   = "deploy"
)

// BuiltinIgnoreMasks are always part of a section's merged ignore set,
// regardless of what the configuration declares.
var BuiltinIgnoreMasks = []string{"*.bak", ".svn", ".git*", "Thumbs.db", ".DS_Store", ".idea"}

// DefaultPreprocessMasks select the preprocessed files when a section
// enables preprocessing without masks of its own.
var DefaultPreprocessMasks = []string{"*.js", "*.css"}

// Section describes one named deployment target.
type Section struct {
	Name            string   `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty" validate:"omitempty"`
	Remote          string   `yaml:"remote" json:"remote" toml:"remote" validate:"required"`
	Local           string   `yaml:"local" json:"local" toml:"local" validate:"required"`
	Mode            string   `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode,omitempty" validate:"omitempty,oneof=generate deploy"`
	PassiveMode     bool     `yaml:"passive_mode,omitempty" json:"passive_mode,omitempty" toml:"passive_mode,omitempty"`
	FilePermissions string   `yaml:"file_permissions,omitempty" json:"file_permissions,omitempty" toml:"file_permissions,omitempty"`
	DirPermissions  string   `yaml:"dir_permissions,omitempty" json:"dir_permissions,omitempty" toml:"dir_permissions,omitempty"`
	Preprocess      bool     `yaml:"preprocess,omitempty" json:"preprocess,omitempty" toml:"preprocess,omitempty"`
	PreprocessMasks []string `yaml:"preprocess_masks,omitempty" json:"preprocess_masks,omitempty" toml:"preprocess_masks,omitempty"`
	IgnoreMasks     []string `yaml:"ignore,omitempty" json:"ignore,omitempty" toml:"ignore,omitempty"`
	DeployFile      string   `yaml:"deployment_file,omitempty" json:"deployment_file,omitempty" toml:"deployment_file,omitempty"`
	AllowDelete     bool     `yaml:"allow_delete,omitempty" json:"allow_delete,omitempty" toml:"allow_delete,omitempty"`
	Purges          []string `yaml:"purge,omitempty" json:"purge,omitempty" toml:"purge,omitempty"`
	TestMode        bool     `yaml:"test_mode,omitempty" json:"test_mode,omitempty" toml:"test_mode,omitempty"`
}

// GetName returns the section name, defaulting to the remote host when no
// name is configured.
func (s *Section) GetName() string {
	if s.Name != "" {
		return s.Name
	}
	if u, err := url.Parse(s.Remote); err == nil && u.Host != "" {
		return u.Host
	}
	return s.Remote
}

// RemoteURL parses and validates the section's remote URL. A URL without
// a scheme or host is rejected.
func (s *Section) RemoteURL() (*url.URL, error) {
	if s.Remote == "" {
		return nil, fmt.Errorf("remote URL is empty")
	}

	u, err := url.Parse(s.Remote)
	if err != nil {
		return nil, fmt.Errorf("remote URL %q does not parse: %w", s.Remote, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote URL %q is missing a scheme or host", s.Remote)
	}

	return u, nil
}

// FilePerm parses the file permission mask. Zero means unset.
func (s *Section) FilePerm() (fs.FileMode, error) {
	return parsePerm(s.FilePermissions)
}

// DirPerm parses the directory permission mask. Zero means unset.
func (s *Section) DirPerm() (fs.FileMode, error) {
	return parsePerm(s.DirPermissions)
}

func parsePerm(mask string) (fs.FileMode, error) {
	if mask == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(mask, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("permission mask %q is not octal: %w", mask, err)
	}
	return fs.FileMode(n), nil
}

// ResolvedPreprocessMasks returns the masks selecting preprocessed files.
// Empty when preprocessing is disabled; the defaults when enabled without
// explicit masks; the configured masks verbatim otherwise.
func (s *Section) ResolvedPreprocessMasks() []string {
	if !s.Preprocess {
		return nil
	}
	if len(s.PreprocessMasks) == 0 {
		return append([]string(nil), DefaultPreprocessMasks...)
	}
	return s.PreprocessMasks
}

// MergedIgnoreMasks returns the built-in ignore masks followed by the
// section's own. Built-ins are never dropped; duplicates are harmless.
func (s *Section) MergedIgnoreMasks() []string {
	merged := make([]string, 0, len(BuiltinIgnoreMasks)+len(s.IgnoreMasks))
	merged = append(merged, BuiltinIgnoreMasks...)
	return append(merged, s.IgnoreMasks...)
}

// EffectiveMode resolves the section's run mode against the global one.
func (s *Section) EffectiveMode(global string) string {
	if s.Mode != "" {
		return s.Mode
	}
	if global != "" {
		return global
	}
	return ModeDeploy
}
