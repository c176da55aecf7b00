package deploy

import (
	"io"

	"github.com/godeploy/godeploy/internal/core/section"
)

// Client is the transport used to reach a section's remote side. Remote
// paths are relative to the root encoded in the section's remote URL.
// Implementations connect lazily, so constructing a client performs no
// network I/O.
type Client interface {
	// ReadFile downloads a remote file.
	ReadFile(path string) ([]byte, error)
	// WriteFile uploads content to path, creating parent directories as
	// needed and applying the client's configured permission masks.
	WriteFile(path string, content io.Reader) error
	// MkdirAll creates a remote directory and any missing parents.
	MkdirAll(path string) error
	// Delete removes a remote file or directory tree.
	Delete(path string) error
	// Close releases the connection.
	Close() error
}

// ClientFactory builds transport clients for sections.
type ClientFactory interface {
	NewClient(sec *section.Section) (Client, error)
}

// Engine performs the actual transfer work for an assembled job.
type Engine interface {
	// CollectPaths enumerates the deployable local paths, honoring the
	// job's ignore masks. Directories carry a trailing slash.
	CollectPaths() ([]string, error)
	// WriteDeploymentFile persists the manifest for paths and returns
	// where it was written.
	WriteDeploymentFile(paths []string) (string, error)
	// Deploy synchronizes the remote side with the local tree.
	Deploy() error
}

// EngineFactory builds engines bound to assembled jobs.
type EngineFactory interface {
	NewEngine(job *Job) Engine
}
