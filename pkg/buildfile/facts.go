package buildfile

import "fmt"

// DependencyKind distinguishes external coordinates from project references
type DependencyKind int

const (
	// External is a "group:artifact:version" coordinate
	External DependencyKind = iota
	// Project is a reference to another module in the same workspace
	Project
)

// String returns "external" or "project"
func (k DependencyKind) String() string {
	if k == Project {
		return "project"
	}
	return "external"
}

// MarshalText implements encoding.TextMarshaler
func (k DependencyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Dependency is one declared dependency of a module.
// External dependencies populate Group, Artifact and Version.
// Project dependencies populate ProjectPath with the raw reference token.
type Dependency struct {
	Configuration string         `json:"configuration" yaml:"configuration"`
	Kind          DependencyKind `json:"kind" yaml:"kind"`
	Group         string         `json:"group,omitempty" yaml:"group,omitempty"`
	Artifact      string         `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Version       string         `json:"version,omitempty" yaml:"version,omitempty"`
	ProjectPath   string         `json:"project,omitempty" yaml:"project,omitempty"`
}

// IsProject reports whether the dependency references a workspace module
func (d Dependency) IsProject() bool {
	return d.Kind == Project
}

// Coordinate returns "group:artifact:version" for external dependencies
// and the project path for project dependencies.
func (d Dependency) Coordinate() string {
	if d.IsProject() {
		return d.ProjectPath
	}
	return fmt.Sprintf("%s:%s:%s", d.Group, d.Artifact, d.Version)
}

// String renders the dependency the way it would appear in a Groovy build file
func (d Dependency) String() string {
	if d.IsProject() {
		return fmt.Sprintf("%s project('%s')", d.Configuration, d.ProjectPath)
	}
	return fmt.Sprintf("%s '%s'", d.Configuration, d.Coordinate())
}

// Recognized property keys
const (
	PropGroup               = "group"
	PropVersion             = "version"
	PropSourceCompatibility = "sourceCompatibility"
	PropTargetCompatibility = "targetCompatibility"
)

// PropertyNames lists the scalar properties the parser extracts, in output order
var PropertyNames = []string{
	PropGroup,
	PropVersion,
	PropSourceCompatibility,
	PropTargetCompatibility,
}

// BuildFacts is everything extracted from one build file
type BuildFacts struct {
	Plugins      []string          `json:"plugins" yaml:"plugins"`
	Dependencies []Dependency      `json:"dependencies" yaml:"dependencies"`
	Repositories []string          `json:"repositories" yaml:"repositories"`
	Properties   map[string]string `json:"properties" yaml:"properties"`
}

// NewBuildFacts returns empty facts with all collections initialized
func NewBuildFacts() *BuildFacts {
	return &BuildFacts{
		Plugins:      []string{},
		Dependencies: []Dependency{},
		Repositories: []string{},
		Properties:   map[string]string{},
	}
}

// Property returns a declared property value
func (f *BuildFacts) Property(name string) (string, bool) {
	if f == nil || f.Properties == nil {
		return "", false
	}
	v, ok := f.Properties[name]
	return v, ok
}

// ProjectDependencies returns the project references in declaration order
func (f *BuildFacts) ProjectDependencies() []Dependency {
	if f == nil {
		return nil
	}
	var out []Dependency
	for _, d := range f.Dependencies {
		if d.IsProject() {
			out = append(out, d)
		}
	}
	return out
}

// ExternalDependencies returns the external coordinates in declaration order
func (f *BuildFacts) ExternalDependencies() []Dependency {
	if f == nil {
		return nil
	}
	var out []Dependency
	for _, d := range f.Dependencies {
		if !d.IsProject() {
			out = append(out, d)
		}
	}
	return out
}

// HasPlugin reports whether a plugin id was declared
func (f *BuildFacts) HasPlugin(id string) bool {
	if f == nil {
		return false
	}
	for _, p := range f.Plugins {
		if p == id {
			return true
		}
	}
	return false
}
