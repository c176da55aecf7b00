package config

import (
	"encoding/json"
	"fmt"

	"github.com/godeploy/godeploy/internal/core/section"
)

// Builder facilitates the construction of deployment configurations
// using a fluent interface pattern. Section-level methods apply to the
// most recently added section.
type Builder struct {
	config  *Config
	current *section.Section
}

// NewBuilder creates and returns a new Builder instance with an
// initialized empty configuration.
func NewBuilder() *Builder {
	return &Builder{
		config: &Config{},
	}
}

// SetMode sets the global run mode ("generate" or "deploy").
func (b *Builder) SetMode(mode string) *Builder {
	b.config.Mode = mode
	return b
}

// SetLog directs run output to the log file at path.
func (b *Builder) SetLog(path string) *Builder {
	b.config.Log = path
	return b
}

// SetTempDir sets the temp directory used by the transfer engine.
func (b *Builder) SetTempDir(path string) *Builder {
	b.config.TempDir = path
	return b
}

// SetColors enables colored console output.
func (b *Builder) SetColors(colors bool) *Builder {
	b.config.Colors = colors
	return b
}

// AddSection appends a new section with the given name, remote URL and
// local directory, and makes it the current section.
func (b *Builder) AddSection(name, remote, local string) *Builder {
	sec := &section.Section{
		Name:   name,
		Remote: remote,
		Local:  local,
	}
	b.config.Sections = append(b.config.Sections, sec)
	b.current = sec
	return b
}

// WithMode overrides the run mode for the current section.
func (b *Builder) WithMode(mode string) *Builder {
	b.current.Mode = mode
	return b
}

// WithPassiveMode enables FTP passive mode for the current section.
func (b *Builder) WithPassiveMode(passive bool) *Builder {
	b.current.PassiveMode = passive
	return b
}

// WithPermissions sets the octal file and directory permission masks for
// the current section. Empty masks leave remote permissions untouched.
func (b *Builder) WithPermissions(filePerm, dirPerm string) *Builder {
	b.current.FilePermissions = filePerm
	b.current.DirPermissions = dirPerm
	return b
}

// WithPreprocess enables preprocessing for the current section. With no
// masks, the defaults (*.js, *.css) apply.
func (b *Builder) WithPreprocess(masks ...string) *Builder {
	b.current.Preprocess = true
	b.current.PreprocessMasks = masks
	return b
}

// WithIgnore adds ignore masks to the current section. The built-in
// masks remain in effect either way.
func (b *Builder) WithIgnore(masks ...string) *Builder {
	b.current.IgnoreMasks = append(b.current.IgnoreMasks, masks...)
	return b
}

// WithDeploymentFile overrides the manifest filename for the current
// section.
func (b *Builder) WithDeploymentFile(name string) *Builder {
	b.current.DeployFile = name
	return b
}

// WithAllowDelete permits deletion of remote files absent locally.
func (b *Builder) WithAllowDelete(allow bool) *Builder {
	b.current.AllowDelete = allow
	return b
}

// WithPurge adds remote paths to force-delete on every deployment.
func (b *Builder) WithPurge(paths ...string) *Builder {
	b.current.Purges = append(b.current.Purges, paths...)
	return b
}

// WithTestMode makes the current section compute and report its change
// set without touching the remote side.
func (b *Builder) WithTestMode(test bool) *Builder {
	b.current.TestMode = test
	return b
}

// GetConfig returns the built configuration.
func (b *Builder) GetConfig() *Config {
	return b.config
}

// Print marshals the configuration to JSON and prints it to stdout.
// Returns an error if JSON marshaling fails.
func (b *Builder) Print() error {
	d, err := json.Marshal(b.config)
	if err != nil {
		return err
	}

	fmt.Println(string(d))
	return nil
}
