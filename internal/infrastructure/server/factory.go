// Package server provides the FTP and SFTP transport clients used to
// reach a section's remote side. Clients are constructed fully
// configured and connect lazily on first use.
package server

import (
	"io/fs"
	"net/url"
	"time"

	"github.com/godeploy/godeploy/internal/core/deploy"
	"github.com/godeploy/godeploy/internal/core/section"
)

// ClientConfig carries everything a transport client needs, resolved
// before construction.
type ClientConfig struct {
	URL      *url.URL
	Passive  bool
	FilePerm fs.FileMode
	DirPerm  fs.FileMode
	Timeout  time.Duration
}

// Factory selects and builds the transport client for a section by
// inspecting the remote URL scheme.
type Factory struct {
	timeout time.Duration
}

// NewFactory creates a new transport client factory.
func NewFactory() *Factory {
	return &Factory{timeout: 10 * time.Second}
}

// NewClient implements deploy.ClientFactory. The sftp and ssh schemes
// yield the secure-shell client; every other scheme yields the FTP
// client.
func (f *Factory) NewClient(sec *section.Section) (deploy.Client, error) {
	u, err := sec.RemoteURL()
	if err != nil {
		return nil, deploy.NewRemoteURLError(err)
	}

	filePerm, err := sec.FilePerm()
	if err != nil {
		return nil, &deploy.ConfigError{Message: "invalid 'file_permissions' mask in config", Cause: err}
	}
	dirPerm, err := sec.DirPerm()
	if err != nil {
		return nil, &deploy.ConfigError{Message: "invalid 'dir_permissions' mask in config", Cause: err}
	}

	cfg := ClientConfig{
		URL:      u,
		Passive:  sec.PassiveMode,
		FilePerm: filePerm,
		DirPerm:  dirPerm,
		Timeout:  f.timeout,
	}

	switch u.Scheme {
	case "sftp", "ssh":
		return NewSFTPClient(cfg), nil
	default:
		return NewFTPClient(cfg), nil
	}
}
