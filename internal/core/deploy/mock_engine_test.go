package deploy

// fakeEngine implements Engine with scriptable behavior.
type fakeEngine struct {
	collectFunc func() ([]string, error)
	writeFunc   func(paths []string) (string, error)
	deployFunc  func() error

	deployCalls int
}

func (e *fakeEngine) CollectPaths() ([]string, error) {
	if e.collectFunc != nil {
		return e.collectFunc()
	}
	return nil, nil
}

func (e *fakeEngine) WriteDeploymentFile(paths []string) (string, error) {
	if e.writeFunc != nil {
		return e.writeFunc(paths)
	}
	return "", nil
}

func (e *fakeEngine) Deploy() error {
	e.deployCalls++
	if e.deployFunc != nil {
		return e.deployFunc()
	}
	return nil
}

// fakeEngineFactory hands out one scripted engine per assembled job, in
// order, and records the jobs it saw.
type fakeEngineFactory struct {
	engines []*fakeEngine
	jobs    []*Job
}

func (f *fakeEngineFactory) NewEngine(job *Job) Engine {
	f.jobs = append(f.jobs, job)
	if len(f.engines) >= len(f.jobs) {
		return f.engines[len(f.jobs)-1]
	}
	return &fakeEngine{}
}
