package deploy

import (
	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/logging"
)

// Job is the fully assembled deployment task for one section. It is
// constructed by the Assembler, handed to an Engine and discarded after
// the section completes; nothing mutates it after assembly.
type Job struct {
	Config  *config.Config
	Section *section.Section
	Server  Client
	Logger  *logging.Logger

	LocalDir string
	TempDir  string

	IgnoreMasks     []string
	PreprocessMasks []string
	Filters         *FilterChain

	DeploymentFile string
	AllowDelete    bool
	Purges         []string
	TestMode       bool

	Before *HookRunner
	After  *HookRunner
}
