package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/exec"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/analyzer"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/workspace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// session is the state most commands share: configuration, logger and
// an analyzer for the workspace.
type session struct {
	root     string
	cfg      *config.Config
	log      logger.Logger
	analyzer *analyzer.Analyzer
	walk     workspace.WalkOptions
}

func newSession(cmd *cobra.Command) (*session, error) {
	root := globals.root
	if root == "" {
		root = "."
	}

	var cfg *config.Config
	var err error
	if globals.config != "" {
		cfg, err = config.LoadFile(globals.config)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, err
	}

	if r := cfg.Workspace.Root; r != "" && r != "." {
		if filepath.IsAbs(r) {
			root = r
		} else {
			root = filepath.Join(root, r)
		}
	}

	levelName := cfg.Log.Level
	if globals.logLevel != "" {
		levelName = globals.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if globals.verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(level, cmd.ErrOrStderr())

	cache, err := analyzer.NewFactsCache(cfg.Analysis.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating facts cache: %w", err)
	}

	a := analyzer.NewAnalyzer(cache).
		WithLogger(log).
		WithWorkers(cfg.Analysis.Workers).
		WithStrict(cfg.Analysis.Strict || globals.strict)

	return &session{
		root:     root,
		cfg:      cfg,
		log:      log,
		analyzer: a,
		walk:     workspace.WalkOptions{ExtraIgnore: cfg.Workspace.Ignore},
	}, nil
}

// analyze runs one discovery and analysis pass over the workspace
func (s *session) analyze(ctx context.Context) (*analyzer.Analysis, error) {
	a, err := s.analyzer.AnalyzeDir(ctx, s.root, s.walk)
	if err != nil {
		return nil, err
	}
	if a.Graph.Len() == 0 {
		return nil, fmt.Errorf("no Gradle modules found under %s", s.root)
	}
	return a, nil
}

// format returns the --format flag, falling back to the configured one
func (s *session) format(flag string) (string, error) {
	f := flag
	if f == "" {
		f = s.cfg.Output.Format
	}
	if !config.ValidFormat(f) {
		return "", fmt.Errorf("invalid format '%s' (must be one of %s)", f, strings.Join(config.Formats, ", "))
	}
	return f, nil
}

// listFormat is format for commands without a graphviz rendering
func (s *session) listFormat(flag string) (string, error) {
	f, err := s.format(flag)
	if err != nil {
		return "", err
	}
	if f == "dot" {
		return "", fmt.Errorf("format 'dot' is only supported by heron graph")
	}
	return f, nil
}

// requireModule returns an error naming the known modules when name is unknown
func requireModule(a *analyzer.Analysis, name string) error {
	if a.Graph.HasNode(name) {
		return nil
	}
	return fmt.Errorf("unknown module '%s' (known: %s)", name, strings.Join(a.Graph.Names(), ", "))
}

// reportIncludes warns about settings includes that do not match the
// modules on disk. Unresolved references are logged by the analyzer.
func reportIncludes(a *analyzer.Analysis) {
	check := a.Snapshot.CheckIncludes()
	for _, p := range check.Missing {
		output.Warn(fmt.Sprintf("settings includes '%s' but no module was found there", p))
	}
	for _, p := range check.Unlisted {
		output.Verbose(fmt.Sprintf("Module %s is not included in the root settings file", p))
	}
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format '%s' is not supported here", format)
}

// uniqueCycles drops cycles that are rotations of one already seen
func uniqueCycles(cycles [][]string) [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, c := range cycles {
		key := cycleKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// cycleKey rotates a cycle to start at its smallest name
func cycleKey(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	start := 0
	for i, name := range cycle {
		if name < cycle[start] {
			start = i
		}
	}
	rotated := append(append([]string{}, cycle[start:]...), cycle[:start]...)
	return strings.Join(rotated, "\x00")
}

// formatCycle renders a cycle closed on its first module: a → b → a
func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, cycle...), cycle[0]), " → ")
}

// moduleForFile returns the module whose directory contains file, using
// the longest matching module path.
func moduleForFile(snap *workspace.Snapshot, file string) (string, bool) {
	rel := file
	if filepath.IsAbs(file) {
		root, err := filepath.Abs(snap.Root)
		if err != nil {
			return "", false
		}
		r, err := filepath.Rel(root, file)
		if err != nil {
			return "", false
		}
		rel = r
	}
	rel = filepath.ToSlash(filepath.Clean(rel))

	best, bestLen := "", -1
	for _, m := range snap.Modules {
		n := len(m.Path)
		switch {
		case m.Path == ".":
			n = 0
		case rel != m.Path && !strings.HasPrefix(rel, m.Path+"/"):
			continue
		}
		if n > bestLen {
			best, bestLen = m.Name, n
		}
	}
	return best, bestLen >= 0
}

// sortedKeys returns the keys of a set in order
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// interruptContext is cancelled on Ctrl+C
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// invocation describes how to run Gradle in a module with the configured
// wrapper preference, Java home and arguments.
func (s *session) invocation(snap *workspace.Snapshot, m *workspace.Module, extra []string) exec.Invocation {
	command := "gradle"
	if s.cfg.Gradle.UseWrapper {
		if wrapper, ok := workspace.FindWrapper(m.Dir, snap.Root); ok {
			command = wrapper
		}
	}

	args := append(append([]string{}, s.cfg.Gradle.Args...), extra...)
	return exec.Invocation{
		Module:     m.Name,
		Dir:        m.Dir,
		Command:    command,
		Args:       args,
		JavaHome:   s.cfg.Gradle.JavaHome,
		GradleOpts: s.cfg.Gradle.Opts,
	}
}
