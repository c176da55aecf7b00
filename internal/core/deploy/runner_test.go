package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/section"
)

func newClosableFactory() *MockClientFactory {
	client := &MockClient{}
	client.On("Close").Return(nil)
	factory := &MockClientFactory{}
	factory.On("NewClient", mock.Anything).Return(client, nil)
	return factory
}

// fixedClock returns the given instants in sequence, repeating the last
// one when exhausted.
func fixedClock(instants ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := instants[i]
		if i < len(instants)-1 {
			i++
		}
		return t
	}
}

func TestRunEndToEnd(t *testing.T) {
	logger, buf := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "A", Remote: "ftp://a.example.com/www", Local: "./a", Mode: section.ModeGenerate},
			{Name: "B", Remote: "sftp://user@b.example.com/www", Local: "./b", TestMode: true},
		},
	}

	engines := &fakeEngineFactory{
		engines: []*fakeEngine{
			{
				collectFunc: func() ([]string, error) { return []string{"index.html", "css/", "css/app.css"}, nil },
				writeFunc:   func(paths []string) (string, error) { return "a/.htdeployment", nil },
			},
			{},
		},
	}

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	runner := NewRunner(cfg, logger, newClosableFactory(), engines,
		WithClock(fixedClock(start, start.Add(5*time.Second))))

	require.NoError(t, runner.Run())

	out := buf.String()
	wantInOrder := []string{
		"Started at 2025-06-01 12:00:00",
		"Found 2 sections: A, B",
		"Deploying section A",
		"Wrote 3 paths to a/.htdeployment",
		"Deploying section B",
		"Test mode",
		"Deleting disabled",
		"Finished at 2025-06-01 12:00:05 (in 5 seconds)",
	}
	last := -1
	for _, want := range wantInOrder {
		idx := strings.Index(out, want)
		require.GreaterOrEqual(t, idx, 0, "missing log line: %s", want)
		assert.Greater(t, idx, last, "log line out of order: %s", want)
		last = idx
	}

	require.Len(t, engines.jobs, 2)
	assert.Equal(t, 0, engines.engines[0].deployCalls)
	assert.Equal(t, 1, engines.engines[1].deployCalls)
}

func TestRunElapsedSeconds(t *testing.T) {
	logger, buf := newTestLogger()

	cfg := &config.Config{Sections: []*section.Section{}}
	start := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	runner := NewRunner(cfg, logger, newClosableFactory(), &fakeEngineFactory{},
		WithClock(fixedClock(start, start.Add(5*time.Second))))

	require.NoError(t, runner.Run())
	assert.Contains(t, buf.String(), "(in 5 seconds)")
}

func TestRunLiveModeLogsDeletionDisabled(t *testing.T) {
	logger, buf := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "live", Remote: "ftp://example.com/www", Local: "./dist"},
		},
	}

	engines := &fakeEngineFactory{engines: []*fakeEngine{{}}}
	runner := NewRunner(cfg, logger, newClosableFactory(), engines)

	require.NoError(t, runner.Run())
	assert.Contains(t, buf.String(), "Live mode")
	assert.Contains(t, buf.String(), "Deleting disabled")
	assert.NotContains(t, buf.String(), "Test mode")
}

func TestRunAllowDeleteSuppressesDisabledLine(t *testing.T) {
	logger, buf := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "live", Remote: "ftp://example.com/www", Local: "./dist", AllowDelete: true},
		},
	}

	engines := &fakeEngineFactory{engines: []*fakeEngine{{}}}
	runner := NewRunner(cfg, logger, newClosableFactory(), engines)

	require.NoError(t, runner.Run())
	assert.NotContains(t, buf.String(), "Deleting disabled")
}

func TestRunAbortsOnSectionFailure(t *testing.T) {
	logger, _ := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "first", Remote: "ftp://example.com/www", Local: "./a"},
			{Name: "second", Remote: "ftp://example.com/www", Local: "./b"},
		},
	}

	engines := &fakeEngineFactory{
		engines: []*fakeEngine{
			{deployFunc: func() error { return errors.New("transfer failed") }},
			{},
		},
	}
	runner := NewRunner(cfg, logger, newClosableFactory(), engines)

	err := runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transfer failed")
	assert.Len(t, engines.jobs, 1, "second section must not start")
}

func TestRunAbortsOnConfigError(t *testing.T) {
	logger, _ := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "good", Remote: "ftp://example.com/www", Local: "./a", Mode: section.ModeGenerate},
			{Name: "bad", Remote: "not a url", Local: "./b"},
			{Name: "never", Remote: "ftp://example.com/www", Local: "./c"},
		},
	}

	engines := &fakeEngineFactory{engines: []*fakeEngine{{}, {}, {}}}
	runner := NewRunner(cfg, logger, newClosableFactory(), engines)

	err := runner.Run()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, engines.jobs, 1, "only the first section runs")
}

func TestRunTempDirCreated(t *testing.T) {
	logger, _ := newTestLogger()
	tempDir := filepath.Join(t.TempDir(), "deploy-temp")

	cfg := &config.Config{TempDir: tempDir, Sections: []*section.Section{}}
	runner := NewRunner(cfg, logger, newClosableFactory(), &fakeEngineFactory{})

	require.NoError(t, runner.Run())
	info, err := os.Stat(tempDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunTempDirFailureIsWarning(t *testing.T) {
	logger, buf := newTestLogger()

	// A file at the temp dir path makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &config.Config{TempDir: blocker, Sections: []*section.Section{}}
	runner := NewRunner(cfg, logger, newClosableFactory(), &fakeEngineFactory{})

	require.NoError(t, runner.Run())
	assert.Contains(t, buf.String(), "warning: cannot create temp directory")
}

func TestRunPassesHooksToJobs(t *testing.T) {
	logger, _ := newTestLogger()

	cfg := &config.Config{
		Sections: []*section.Section{
			{Name: "hooked", Remote: "ftp://example.com/www", Local: "./dist", Mode: section.ModeGenerate},
		},
	}

	engines := &fakeEngineFactory{engines: []*fakeEngine{{}}}
	hooks := HookSet{Before: []Hook{{Func: func(*HookContext) error { return nil }}}}
	runner := NewRunner(cfg, logger, newClosableFactory(), engines, WithHooks("hooked", hooks))

	require.NoError(t, runner.Run())
	require.Len(t, engines.jobs, 1)
	assert.Equal(t, 1, engines.jobs[0].Before.Len())
}
