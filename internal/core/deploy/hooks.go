package deploy

import (
	"fmt"
	"reflect"

	"github.com/godeploy/godeploy/internal/config"
	"github.com/godeploy/godeploy/internal/core/section"
	"github.com/godeploy/godeploy/internal/logging"
)

// HookContext is the runtime context passed to every hook invocation.
type HookContext struct {
	Config  *config.Config
	Section *section.Section
	Server  Client
	Logger  *logging.Logger
	Job     *Job
}

// HookFunc is the signature hooks must satisfy.
type HookFunc func(ctx *HookContext) error

// Hook references one callback to run around a section's transfer:
// either a direct function or a (Target, Method) pair resolved by
// reflection. Exactly one of the two forms should be set.
type Hook struct {
	Func   HookFunc
	Target any
	Method string
}

// HookSet carries a section's before and after callback lists.
type HookSet struct {
	Before []Hook
	After  []Hook
}

// HookRunner wraps a callback list into a single invocation unit.
// Entries that cannot be invoked are reported through the logger and
// skipped; a broken hook never aborts the run.
type HookRunner struct {
	direction string
	hooks     []Hook
	logger    *logging.Logger
}

// NewHookRunner creates the invocation unit for one hook direction
// ("before" or "after").
func NewHookRunner(direction string, hooks []Hook, logger *logging.Logger) *HookRunner {
	return &HookRunner{direction: direction, hooks: hooks, logger: logger}
}

// Len returns the number of wrapped callbacks.
func (r *HookRunner) Len() int {
	return len(r.hooks)
}

// Invoke runs every callback in declared order.
func (r *HookRunner) Invoke(ctx *HookContext) {
	for _, h := range r.hooks {
		fn, ok := resolveHook(h)
		if !ok {
			r.logger.Log(fmt.Sprintf("warning: %s hook %s is not callable, skipping", r.direction, describeHook(h)), logging.Yellow)
			continue
		}
		if err := fn(ctx); err != nil {
			r.logger.Log(fmt.Sprintf("warning: %s hook %s failed: %v", r.direction, describeHook(h), err), logging.Yellow)
		}
	}
}

// resolveHook returns the invocable form of h. Method references are
// resolved by name against the target and must match the HookFunc
// signature.
func resolveHook(h Hook) (HookFunc, bool) {
	if h.Func != nil {
		return h.Func, true
	}
	if h.Target == nil || h.Method == "" {
		return nil, false
	}

	m := reflect.ValueOf(h.Target).MethodByName(h.Method)
	if !m.IsValid() {
		return nil, false
	}
	fn, ok := m.Interface().(func(*HookContext) error)
	if !ok {
		return nil, false
	}
	return fn, true
}

// describeHook identifies a hook by its declaring type and member name
// for warning messages.
func describeHook(h Hook) string {
	if h.Target != nil {
		return fmt.Sprintf("%T.%s", h.Target, h.Method)
	}
	if h.Method != "" {
		return fmt.Sprintf("<nil>.%s", h.Method)
	}
	return "<empty hook>"
}
