package deploy

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/logging"
)

const timestampFormat = "2006-01-02 15:04:05"

// Runner drives all configured sections through one deployment pass.
// Sections are processed strictly in declared order; the first unhandled
// failure aborts the remainder of the run.
type Runner struct {
	cfg       *config.Config
	logger    *logging.Logger
	assembler *Assembler
	engines   EngineFactory
	hooks     map[string]HookSet
	now       func() time.Time
}

// RunnerOption defines functional options for Runner.
type RunnerOption func(*Runner)

// WithHooks attaches before/after callbacks to the named section.
func WithHooks(sectionName string, hooks HookSet) RunnerOption {
	return func(r *Runner) {
		r.hooks[sectionName] = hooks
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.Config, logger *logging.Logger, clients ClientFactory, engines EngineFactory, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		engines: engines,
		hooks:   make(map[string]HookSet),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.assembler = NewAssembler(clients, logger, cfg.TempDir)
	return r
}

// Run processes every configured section once and reports aggregate
// timing. A completed section stays completed even when a later one
// fails; there is no rollback and no retry.
func (r *Runner) Run() error {
	start := r.now()
	r.logger.Log(fmt.Sprintf("Started at %s", start.Format(timestampFormat)), logging.Cyan)

	names := make([]string, 0, len(r.cfg.Sections))
	for _, sec := range r.cfg.Sections {
		names = append(names, sec.GetName())
	}
	r.logger.Log(fmt.Sprintf("Found %d sections: %s", len(names), strings.Join(names, ", ")))

	r.ensureTempDir()

	for _, sec := range r.cfg.Sections {
		if err := r.runSection(sec); err != nil {
			return err
		}
	}

	end := r.now()
	elapsed := int(end.Sub(start).Seconds())
	r.logger.Log(fmt.Sprintf("Finished at %s (in %d seconds)", end.Format(timestampFormat), elapsed), logging.Cyan)
	return nil
}

// ensureTempDir creates the configured temp directory. Failure is a
// warning, not a fault: the engine tolerates a missing temp dir.
func (r *Runner) ensureTempDir() {
	if r.cfg.TempDir == "" {
		return
	}
	if err := os.MkdirAll(r.cfg.TempDir, 0o755); err != nil {
		r.logger.Log(fmt.Sprintf("warning: cannot create temp directory %s: %v", r.cfg.TempDir, err), logging.Yellow)
	}
}

func (r *Runner) runSection(sec *section.Section) error {
	r.logger.Log(fmt.Sprintf("Deploying section %s", sec.GetName()), logging.Green)

	job, err := r.assembler.Assemble(r.cfg, sec, r.hooks[sec.GetName()])
	if err != nil {
		return err
	}
	defer job.Server.Close()

	eng := r.engines.NewEngine(job)

	if sec.EffectiveMode(r.cfg.Mode) == section.ModeGenerate {
		return r.generateSection(sec, eng)
	}
	return r.syncSection(sec, job, eng)
}

// generateSection writes the deployment manifest from the local tree
// without ever contacting the remote server.
func (r *Runner) generateSection(sec *section.Section, eng Engine) error {
	paths, err := eng.CollectPaths()
	if err != nil {
		return fmt.Errorf("section '%s': collecting paths failed: %w", sec.GetName(), err)
	}

	dest, err := eng.WriteDeploymentFile(paths)
	if err != nil {
		return fmt.Errorf("section '%s': writing deployment file failed: %w", sec.GetName(), err)
	}

	r.logger.Log(fmt.Sprintf("Wrote %d paths to %s", len(paths), dest))
	return nil
}

// syncSection performs the live (or test) transfer for one section.
func (r *Runner) syncSection(sec *section.Section, job *Job, eng Engine) error {
	if job.TestMode {
		r.logger.Log("Test mode", logging.Red)
	} else {
		r.logger.Log("Live mode")
	}
	if !job.AllowDelete {
		r.logger.Log("Deleting disabled")
	}

	if err := eng.Deploy(); err != nil {
		return fmt.Errorf("section '%s': deployment failed: %w", sec.GetName(), err)
	}
	return nil
}
