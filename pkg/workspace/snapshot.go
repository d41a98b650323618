package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

// Module is one discovered Gradle module
type Module struct {
	Name         string            `json:"name" yaml:"name"`
	Path         string            `json:"path" yaml:"path"` // Relative to the root, slash separated
	Dir          string            `json:"-" yaml:"-"`
	Dialect      buildfile.Dialect `json:"dialect" yaml:"dialect"`
	BuildFile    string            `json:"build_file" yaml:"build_file"`
	BuildText    string            `json:"-" yaml:"-"`
	SettingsFile string            `json:"settings_file,omitempty" yaml:"settings_file,omitempty"`
	SettingsText string            `json:"-" yaml:"-"`
	WrapperPath  string            `json:"wrapper,omitempty" yaml:"wrapper,omitempty"`
}

// HasWrapper reports whether the module ships its own wrapper
func (m *Module) HasWrapper() bool {
	return m.WrapperPath != ""
}

// Snapshot is the result of one discovery pass. It is not modified after
// Discover returns.
type Snapshot struct {
	Root            string
	Modules         []*Module
	SettingsFile    string
	SettingsText    string
	SettingsDialect buildfile.Dialect
	RootProjectName string
	Includes        []string // Raw include tokens from the root settings file
}

// Module returns a module by name
func (s *Snapshot) Module(name string) (*Module, bool) {
	for _, m := range s.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Names returns module names in discovery order
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Modules))
	for i, m := range s.Modules {
		names[i] = m.Name
	}
	return names
}

// IncludeCheck compares the root settings includes with discovered modules
type IncludeCheck struct {
	Missing  []string // Included paths with no module directory
	Unlisted []string // Modules whose path no include names
}

// CheckIncludes reports drift between settings includes and the modules
// found on disk. Without a root settings file there is nothing to compare.
func (s *Snapshot) CheckIncludes() IncludeCheck {
	check := IncludeCheck{Missing: []string{}, Unlisted: []string{}}
	if s.SettingsFile == "" {
		return check
	}

	included := make(map[string]bool, len(s.Includes))
	for _, tok := range s.Includes {
		included[IncludePath(tok)] = true
	}

	present := make(map[string]bool, len(s.Modules))
	for _, m := range s.Modules {
		present[m.Path] = true
		if !included[m.Path] {
			check.Unlisted = append(check.Unlisted, m.Path)
		}
	}

	for _, tok := range s.Includes {
		if p := IncludePath(tok); !present[p] && !contains(check.Missing, p) {
			check.Missing = append(check.Missing, p)
		}
	}
	return check
}

// IncludePath converts an include token such as ":libs:core" into the
// conventional directory path "libs/core".
func IncludePath(token string) string {
	parts := strings.FieldsFunc(token, func(r rune) bool { return r == ':' || r == '/' })
	return strings.Join(parts, "/")
}

// DiscoverOptions configures Discover
type DiscoverOptions struct {
	Walk   WalkOptions
	Logger logger.Logger
}

// Discover scans root for Gradle modules and reads their files.
func Discover(ctx context.Context, root string, opts DiscoverOptions) (*Snapshot, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewSilentLogger()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", absRoot)
	}

	snap := &Snapshot{
		Root:     absRoot,
		Modules:  []*Module{},
		Includes: []string{},
	}

	if path, ok := FindSettingsFile(absRoot); ok {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		snap.SettingsFile = path
		snap.SettingsText = string(text)
		snap.SettingsDialect = buildfile.DialectForFile(path)
		snap.Includes = buildfile.ParseSettings(snap.SettingsText, snap.SettingsDialect)
		snap.RootProjectName, _ = buildfile.ParseRootProjectName(snap.SettingsText)
	}

	err = WalkDirs(absRoot, opts.Walk, func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		m, err := DetectModule(dir, absRoot)
		if err != nil {
			return err
		}
		if m != nil {
			log.Debug("found module", logger.F("path", m.Path), logger.F("dialect", m.Dialect))
			snap.Modules = append(snap.Modules, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", absRoot, err)
	}

	disambiguate(snap.Modules)
	log.Info("discovered modules", logger.F("count", len(snap.Modules)), logger.F("root", absRoot))

	return snap, nil
}

// DetectModule inspects dir and reads its build and settings files.
// It returns nil without error when dir holds no build file.
func DetectModule(dir, root string) (*Module, error) {
	buildPath, dialect, ok := FindBuildFile(dir)
	if !ok {
		return nil, nil
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, fmt.Errorf("relative path of %s: %w", dir, err)
	}
	rel = filepath.ToSlash(rel)

	text, err := os.ReadFile(buildPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", buildPath, err)
	}

	m := &Module{
		Name:      filepath.Base(dir),
		Path:      rel,
		Dir:       dir,
		Dialect:   dialect,
		BuildFile: buildPath,
		BuildText: string(text),
	}

	if settings, ok := FindSettingsFile(dir); ok {
		st, err := os.ReadFile(settings)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", settings, err)
		}
		m.SettingsFile = settings
		m.SettingsText = string(st)
	}

	if wrapper, ok := DetectWrapper(dir); ok {
		m.WrapperPath = wrapper
	}

	return m, nil
}

// disambiguate renames modules that share a directory name to their full
// path joined with '-', so "a/util" and "b/util" become "a-util" and "b-util".
// A renamed module never takes a name already in use; it gets a numeric
// suffix instead ("a-util-2").
func disambiguate(modules []*Module) {
	count := make(map[string]int, len(modules))
	for _, m := range modules {
		count[m.Name]++
	}

	taken := make(map[string]bool, len(modules))
	for _, m := range modules {
		if count[m.Name] == 1 {
			taken[m.Name] = true
		}
	}

	for _, m := range modules {
		if count[m.Name] == 1 {
			continue
		}
		base := strings.ReplaceAll(m.Path, "/", "-")
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		taken[name] = true
		m.Name = name
	}
}

func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
