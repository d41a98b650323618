package exec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Invocation is one build-tool run in one module
type Invocation struct {
	Module     string   // Module name, used in messages
	Dir        string   // Working directory
	Command    string   // gradle or the wrapper script
	Task       string   // Overrides the target's default task
	Args       []string // Extra arguments after the task
	JavaHome   string   // Exported as JAVA_HOME when set
	GradleOpts []string // Joined into GRADLE_OPTS when set

	Coverage       bool   // test: add jacocoTestReport
	CoverageFormat string // test: xml, html or csv
}

// Env returns the environment entries the invocation adds
func (inv Invocation) Env() []string {
	var env []string
	if inv.JavaHome != "" {
		env = append(env, "JAVA_HOME="+inv.JavaHome)
	}
	if len(inv.GradleOpts) > 0 {
		env = append(env, "GRADLE_OPTS="+strings.Join(inv.GradleOpts, " "))
	}
	return env
}

// Target turns an Invocation into build-tool arguments
type Target interface {
	// Name returns the target name for registry lookup
	Name() string
	// Description returns a brief description of what the target does
	Description() string
	// Args returns the build-tool arguments for inv
	Args(inv Invocation) []string
}

type buildTarget struct{}

func (buildTarget) Name() string        { return "build" }
func (buildTarget) Description() string { return "Run a Gradle task, build by default" }
func (buildTarget) Args(inv Invocation) []string {
	task := inv.Task
	if task == "" {
		task = "build"
	}
	return append([]string{task}, inv.Args...)
}

type testTarget struct{}

func (testTarget) Name() string        { return "test" }
func (testTarget) Description() string { return "Run tests, optionally with a JaCoCo report" }
func (testTarget) Args(inv Invocation) []string {
	task := inv.Task
	if task == "" {
		task = "test"
	}
	args := append([]string{task}, inv.Args...)
	if inv.Coverage {
		args = append(args, "jacocoTestReport")
		if inv.CoverageFormat != "" {
			args = append(args, "-Pcoverage.format="+inv.CoverageFormat)
		}
	}
	return args
}

type gradleTarget struct{}

func (gradleTarget) Name() string        { return "gradle" }
func (gradleTarget) Description() string { return "Pass arguments straight to Gradle" }
func (gradleTarget) Args(inv Invocation) []string {
	return append([]string(nil), inv.Args...)
}

// Registry manages named targets
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// Register adds a target to the registry
func (r *Registry) Register(t Target) error {
	if t == nil {
		return fmt.Errorf("cannot register nil target")
	}

	name := t.Name()
	if name == "" {
		return fmt.Errorf("cannot register target with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[name]; exists {
		return fmt.Errorf("target '%s' is already registered", name)
	}

	r.targets[name] = t
	return nil
}

// Get retrieves a target by name
func (r *Registry) Get(name string) (Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[name]
	return t, ok
}

// List returns all registered target names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Descriptions returns every registered target with its description
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.targets))
	for name, t := range r.targets {
		result[name] = t.Description()
	}
	return result
}

// defaultRegistry holds the built-in targets
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, t := range []Target{buildTarget{}, testTarget{}, gradleTarget{}} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}()

// Lookup retrieves a built-in target
func Lookup(name string) (Target, bool) {
	return defaultRegistry.Get(name)
}

// Targets returns the built-in target names
func Targets() []string {
	return defaultRegistry.List()
}

// Describe returns the description of each built-in target
func Describe() map[string]string {
	return defaultRegistry.Descriptions()
}

// CommandLine renders the command a target would run
func CommandLine(t Target, inv Invocation) string {
	return NewCommand(nil, inv.Command).WithArgs(t.Args(inv)...).String()
}

// RunTarget runs t for one invocation
func RunTarget(ctx context.Context, e *Executor, t Target, inv Invocation) error {
	args := t.Args(inv)
	label := inv.Module
	if label == "" {
		label = inv.Dir
	}

	cmd := NewCommand(e, inv.Command).
		WithArgs(args...).
		WithEnv(inv.Env()...).
		WithDir(inv.Dir).
		WithSpinner(fmt.Sprintf("%s %s", label, strings.Join(args, " ")))

	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("%s in %s: %w", t.Name(), label, err)
	}
	return nil
}
