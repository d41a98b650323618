package generator

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/exec"
	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// ProjectType is the kind of module to scaffold
type ProjectType string

const (
	Application ProjectType = "application"
	Library     ProjectType = "library"
)

// Defaults for new modules
const (
	DefaultGradleVersion = "8.5"
	DefaultJavaVersion   = "17"
	DefaultGroup         = "com.example"
	JUnitVersion         = "5.10.1"
)

var (
	namePattern        = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)
	javaVersionPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	groupPattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	gradleVersionRe    = regexp.MustCompile(`^\d+(\.\d+){0,2}(-[A-Za-z0-9.-]+)?$`)
)

// ProjectOptions are the inputs of heron new
type ProjectOptions struct {
	Name          string
	Directory     string // Parent directory, relative to the workspace root
	Type          ProjectType
	Dialect       buildfile.Dialect
	JavaVersion   string
	Group         string
	GradleVersion string
	Wrapper       bool // Run gradle wrapper after scaffolding
}

// Project is a validated ProjectOptions with derived names
type Project struct {
	ProjectOptions

	Root         string // Slash separated path of the module, e.g. services/billing
	ProjectName  string // Root with '/' replaced by '-'
	JUnitVersion string
}

// IsApplication reports whether the module gets the application plugin
func (p *Project) IsApplication() bool {
	return p.Type == Application
}

// ParseProjectType accepts application or library, case-insensitively
func ParseProjectType(s string) (ProjectType, error) {
	switch ProjectType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Application:
		return Application, nil
	case Library:
		return Library, nil
	}
	return "", fmt.Errorf("invalid project type '%s' (must be application or library)", s)
}

// Normalize fills defaults and validates the options
func Normalize(opts ProjectOptions) (*Project, error) {
	if !namePattern.MatchString(opts.Name) {
		return nil, fmt.Errorf("invalid module name '%s': use letters, digits, '.', '_' or '-', starting with a letter", opts.Name)
	}

	if opts.Type == "" {
		opts.Type = Application
	}
	if opts.Type != Application && opts.Type != Library {
		return nil, fmt.Errorf("invalid project type '%s' (must be application or library)", opts.Type)
	}

	if opts.JavaVersion == "" {
		opts.JavaVersion = DefaultJavaVersion
	}
	if !javaVersionPattern.MatchString(opts.JavaVersion) {
		return nil, fmt.Errorf("invalid java version '%s'", opts.JavaVersion)
	}

	if opts.Group == "" {
		opts.Group = DefaultGroup
	}
	if !groupPattern.MatchString(opts.Group) {
		return nil, fmt.Errorf("invalid group '%s': expected a dotted package name", opts.Group)
	}

	if opts.GradleVersion == "" {
		opts.GradleVersion = DefaultGradleVersion
	}
	if !gradleVersionRe.MatchString(opts.GradleVersion) {
		return nil, fmt.Errorf("invalid gradle version '%s'", opts.GradleVersion)
	}

	dir := path.Clean(filepath.ToSlash(opts.Directory))
	if path.IsAbs(dir) || dir == ".." || strings.HasPrefix(dir, "../") {
		return nil, fmt.Errorf("directory '%s' must be relative to the workspace", opts.Directory)
	}
	if dir == "." {
		dir = ""
	}
	opts.Directory = dir

	root := opts.Name
	if dir != "" {
		root = dir + "/" + opts.Name
	}

	return &Project{
		ProjectOptions: opts,
		Root:           root,
		ProjectName:    strings.ReplaceAll(root, "/", "-"),
		JUnitVersion:   JUnitVersion,
	}, nil
}

// File is one generated file
type File struct {
	Path     string // Relative to the module root, slash separated
	Template string // Path in the template filesystem
}

// Files lists the generated files in write order
func (p *Project) Files() []File {
	dialect := "groovy"
	if p.Dialect == buildfile.Kotlin {
		dialect = "kotlin"
	}
	build := p.Dialect.BuildFileName()
	settings := p.Dialect.SettingsFileName()

	return []File{
		{Path: build, Template: path.Join("templates", dialect, build+".tmpl")},
		{Path: settings, Template: path.Join("templates", dialect, settings+".tmpl")},
		{Path: "src/main/java/Main.java", Template: "templates/java/Main.java.tmpl"},
		{Path: "src/test/java/MainTest.java", Template: "templates/java/MainTest.java.tmpl"},
		{Path: ".gitignore", Template: "templates/gitignore.tmpl"},
	}
}

// Operations renders every file of the module under workspaceRoot
func (p *Project) Operations(workspaceRoot string, r *Renderer) ([]Operation, error) {
	moduleDir := p.Dir(workspaceRoot)

	files := p.Files()
	ops := make([]Operation, 0, len(files))
	for _, f := range files {
		content, err := r.Render(f.Template, p)
		if err != nil {
			return nil, err
		}
		ops = append(ops, &WriteFileOp{
			Path:    filepath.Join(moduleDir, filepath.FromSlash(f.Path)),
			Content: content,
			Mode:    0644,
		})
	}
	return ops, nil
}

// Dir returns the module directory under workspaceRoot
func (p *Project) Dir(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, filepath.FromSlash(p.Root))
}

// InitWrapper runs gradle wrapper in the module directory
func InitWrapper(ctx context.Context, e *exec.Executor, dir, gradleVersion string) error {
	return exec.NewCommand(e, "gradle").
		WithArgs("wrapper", "--gradle-version", gradleVersion).
		WithDir(dir).
		WithSpinner("Initializing Gradle wrapper").
		Run(ctx)
}
