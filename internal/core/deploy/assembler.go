package deploy

import (
	"fmt"

	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/logging"
)

// Assembler turns section descriptors into ready-to-run jobs.
type Assembler struct {
	clients ClientFactory
	logger  *logging.Logger
	tempDir string
}

// NewAssembler creates an assembler sharing one logger and temp
// directory across all sections of a run.
func NewAssembler(clients ClientFactory, logger *logging.Logger, tempDir string) *Assembler {
	return &Assembler{clients: clients, logger: logger, tempDir: tempDir}
}

// Assemble validates the section, constructs its transport client and
// returns the fully populated job. It does not execute anything: the
// remote URL is rejected before any resource is created.
func (a *Assembler) Assemble(cfg *config.Config, sec *section.Section, hooks HookSet) (*Job, error) {
	if _, err := sec.RemoteURL(); err != nil {
		return nil, NewRemoteURLError(err)
	}
	if _, err := sec.FilePerm(); err != nil {
		return nil, &ConfigError{Message: "invalid 'file_permissions' mask in config", Cause: err}
	}
	if _, err := sec.DirPerm(); err != nil {
		return nil, &ConfigError{Message: "invalid 'dir_permissions' mask in config", Cause: err}
	}

	client, err := a.clients.NewClient(sec)
	if err != nil {
		return nil, fmt.Errorf("failed to create server client for '%s': %w", sec.GetName(), err)
	}

	job := &Job{
		Config:          cfg,
		Section:         sec,
		Server:          client,
		Logger:          a.logger,
		LocalDir:        sec.Local,
		TempDir:         a.tempDir,
		IgnoreMasks:     sec.MergedIgnoreMasks(),
		PreprocessMasks: sec.ResolvedPreprocessMasks(),
		Filters:         BuildFilters(sec),
		DeploymentFile:  sec.DeployFile,
		AllowDelete:     sec.AllowDelete,
		Purges:          sec.Purges,
		TestMode:        sec.TestMode,
	}
	job.Before = NewHookRunner("before", hooks.Before, a.logger)
	job.After = NewHookRunner("after", hooks.After, a.logger)

	return job, nil
}
