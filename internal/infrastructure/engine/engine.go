// Package engine implements the transfer engine: it walks the local
// tree, diffs it against the manifest stored on the remote side and
// applies the minimal set of uploads, deletes and purges.
package engine

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/godeploy/godeploy/internal/core/deploy"
	"github.com/godeploy/godeploy/internal/logging"
	"github.com/godeploy/godeploy/internal/util"
)

// DefaultDeploymentFile is the manifest name used when a section does
// not configure its own.
const DefaultDeploymentFile = ".htdeployment"

// Factory builds sync engines. It implements deploy.EngineFactory.
type Factory struct{}

// NewFactory creates a new engine factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewEngine implements deploy.EngineFactory
func (f *Factory) NewEngine(job *deploy.Job) deploy.Engine {
	return &SyncEngine{job: job}
}

// SyncEngine is the manifest-diffing engine bound to one job.
type SyncEngine struct {
	job *deploy.Job
}

func (e *SyncEngine) deploymentFile() string {
	if e.job.DeploymentFile != "" {
		return e.job.DeploymentFile
	}
	return DefaultDeploymentFile
}

// CollectPaths implements deploy.Engine. Paths are slash-separated and
// relative to the section's local directory, in lexical walk order;
// directories carry a trailing slash. Ignored subtrees are not entered.
func (e *SyncEngine) CollectPaths() ([]string, error) {
	var paths []string
	root := e.job.LocalDir

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if rel == e.deploymentFile() {
			return nil
		}
		if util.MatchesAny(rel, e.job.IgnoreMasks) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// WriteDeploymentFile implements deploy.Engine. The manifest lands next
// to the deployed files so a later run can pick it up locally.
func (e *SyncEngine) WriteDeploymentFile(paths []string) (string, error) {
	manifest, err := e.localManifest(paths)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(e.job.LocalDir, e.deploymentFile())
	if err := os.WriteFile(dest, manifest.Encode(), 0o644); err != nil {
		return "", fmt.Errorf("writing deployment file: %w", err)
	}
	return dest, nil
}

// localManifest fingerprints the collected paths. Directories get the
// placeholder hash.
func (e *SyncEngine) localManifest(paths []string) (Manifest, error) {
	m := make(Manifest, len(paths))
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			m[p] = DirHash
			continue
		}
		hash, err := HashFile(filepath.Join(e.job.LocalDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		m[p] = hash
	}
	return m, nil
}

// Deploy implements deploy.Engine. In test mode every planned action is
// reported but nothing on the remote side is touched, not even the
// manifest; hooks still run in both modes.
func (e *SyncEngine) Deploy() error {
	job := e.job
	ctx := &deploy.HookContext{
		Config:  job.Config,
		Section: job.Section,
		Server:  job.Server,
		Logger:  job.Logger,
		Job:     job,
	}
	job.Before.Invoke(ctx)

	paths, err := e.CollectPaths()
	if err != nil {
		return err
	}
	local, err := e.localManifest(paths)
	if err != nil {
		return err
	}
	remote := e.readRemoteManifest()

	uploads := e.planUploads(paths, local, remote)
	deletes := e.planDeletes(local, remote)

	if job.TestMode {
		e.reportPlan(uploads, deletes)
	} else if err := e.applyPlan(uploads, deletes, local); err != nil {
		return err
	}

	job.After.Invoke(ctx)
	return nil
}

// readRemoteManifest downloads the manifest from the previous run. A
// missing or unreadable manifest means everything gets uploaded.
func (e *SyncEngine) readRemoteManifest() Manifest {
	data, err := e.job.Server.ReadFile(e.deploymentFile())
	if err != nil {
		e.job.Logger.Log(fmt.Sprintf("No deployment file %s on remote, uploading everything", e.deploymentFile()))
		return Manifest{}
	}
	m, err := ParseManifest(data)
	if err != nil {
		e.job.Logger.Log(fmt.Sprintf("warning: remote deployment file is unreadable, uploading everything: %v", err), logging.Yellow)
		return Manifest{}
	}
	return m
}

// planUploads keeps the new and changed paths in walk order, so parent
// directories always precede their contents.
func (e *SyncEngine) planUploads(paths []string, local, remote Manifest) []string {
	var uploads []string
	for _, p := range paths {
		if remote[p] != local[p] {
			uploads = append(uploads, p)
		}
	}
	return uploads
}

// planDeletes returns remote-only paths in reverse lexical order, so
// directory contents are removed before the directory itself. The list
// is empty when deleting is disabled.
func (e *SyncEngine) planDeletes(local, remote Manifest) []string {
	if !e.job.AllowDelete {
		return nil
	}
	var deletes []string
	for p := range remote {
		if _, ok := local[p]; !ok {
			deletes = append(deletes, p)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(deletes)))
	return deletes
}

func (e *SyncEngine) reportPlan(uploads, deletes []string) {
	log := e.job.Logger
	for _, p := range uploads {
		log.Log(fmt.Sprintf("Would upload %s", p))
	}
	for _, p := range deletes {
		log.Log(fmt.Sprintf("Would delete %s", p))
	}
	for _, p := range e.job.Purges {
		log.Log(fmt.Sprintf("Would purge %s", p))
	}
}

func (e *SyncEngine) applyPlan(uploads, deletes []string, local Manifest) error {
	job := e.job

	for _, p := range uploads {
		if strings.HasSuffix(p, "/") {
			job.Logger.Log(fmt.Sprintf("Creating directory %s", p))
			if err := job.Server.MkdirAll(strings.TrimSuffix(p, "/")); err != nil {
				return err
			}
			continue
		}
		job.Logger.Log(fmt.Sprintf("Uploading %s", p))
		if err := e.uploadFile(p); err != nil {
			return err
		}
	}

	for _, p := range deletes {
		job.Logger.Log(fmt.Sprintf("Deleting %s", p))
		if err := job.Server.Delete(strings.TrimSuffix(p, "/")); err != nil {
			return err
		}
	}

	for _, p := range job.Purges {
		job.Logger.Log(fmt.Sprintf("Purging %s", p))
		if err := job.Server.Delete(p); err != nil {
			job.Logger.Log(fmt.Sprintf("warning: purging %s failed: %v", p, err), logging.Yellow)
		}
	}

	return job.Server.WriteFile(e.deploymentFile(), bytes.NewReader(local.Encode()))
}

// uploadFile ships one local file, running it through the section's
// filter chain when a preprocess mask matches. Filtered content spills
// to the temp directory when one is configured, falling back to memory
// when the spill fails.
func (e *SyncEngine) uploadFile(p string) error {
	localPath := filepath.Join(e.job.LocalDir, filepath.FromSlash(p))
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}

	filtered, changed, err := e.filterContent(p, localPath, content)
	if err != nil {
		return err
	}

	if changed && e.job.TempDir != "" {
		if staged, ok := e.stageToTemp(p, filtered); ok {
			defer os.Remove(staged)
			f, err := os.Open(staged)
			if err == nil {
				defer f.Close()
				return e.job.Server.WriteFile(p, f)
			}
		}
	}
	return e.job.Server.WriteFile(p, bytes.NewReader(filtered))
}

func (e *SyncEngine) filterContent(p, localPath string, content []byte) ([]byte, bool, error) {
	if e.job.Filters == nil || e.job.Filters.Len() == 0 {
		return content, false, nil
	}
	if !util.MatchesAny(p, e.job.PreprocessMasks) {
		return content, false, nil
	}
	fileType := strings.TrimPrefix(filepath.Ext(p), ".")
	if !e.job.Filters.Has(fileType) {
		return content, false, nil
	}
	out, err := e.job.Filters.Apply(fileType, content, localPath)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// stageToTemp writes filtered content to the temp directory and returns
// the staged path. A failed spill is a warning, not a fault.
func (e *SyncEngine) stageToTemp(p string, content []byte) (string, bool) {
	f, err := os.CreateTemp(e.job.TempDir, filepath.Base(p)+".*")
	if err != nil {
		e.job.Logger.Log(fmt.Sprintf("warning: cannot stage %s in temp directory: %v", p, err), logging.Yellow)
		return "", false
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		e.job.Logger.Log(fmt.Sprintf("warning: cannot stage %s in temp directory: %v", p, err), logging.Yellow)
		return "", false
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", false
	}
	return f.Name(), true
}
