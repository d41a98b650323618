package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// Module is one workspace module as handed to Build
type Module struct {
	Name  string
	Path  string // Workspace-relative directory, slash or backslash separated
	Facts *buildfile.BuildFacts
}

// Reason explains why a project reference produced no edge
type Reason string

const (
	ReasonNotFound  Reason = "not-found"
	ReasonAmbiguous Reason = "ambiguous"
)

// ErrUnresolved is wrapped by Diagnostics.Strict
var ErrUnresolved = errors.New("unresolved project references")

// Unresolved is a project reference that did not become an edge
type Unresolved struct {
	Module        string   `json:"module" yaml:"module"`
	Configuration string   `json:"configuration" yaml:"configuration"`
	ProjectPath   string   `json:"project" yaml:"project"`
	Reason        Reason   `json:"reason" yaml:"reason"`
	Candidates    []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

func (u Unresolved) String() string {
	s := fmt.Sprintf("%s: %s project('%s') is %s", u.Module, u.Configuration, u.ProjectPath, u.Reason)
	if len(u.Candidates) > 0 {
		s += " (" + strings.Join(u.Candidates, ", ") + ")"
	}
	return s
}

// Diagnostics is the resolution report produced alongside a graph
type Diagnostics struct {
	Unresolved       []Unresolved `json:"unresolved" yaml:"unresolved"`
	DuplicateModules []string     `json:"duplicate_modules" yaml:"duplicate_modules"`
}

// HasIssues reports whether anything failed to resolve
func (d *Diagnostics) HasIssues() bool {
	return d != nil && (len(d.Unresolved) > 0 || len(d.DuplicateModules) > 0)
}

// Strict returns an error wrapping ErrUnresolved when any reference
// failed to resolve or any module name was duplicated.
func (d *Diagnostics) Strict() error {
	if !d.HasIssues() {
		return nil
	}

	var lines []string
	for _, name := range d.DuplicateModules {
		lines = append(lines, fmt.Sprintf("duplicate module name '%s'", name))
	}
	for _, u := range d.Unresolved {
		lines = append(lines, u.String())
	}
	return fmt.Errorf("%w:\n  %s", ErrUnresolved, strings.Join(lines, "\n  "))
}

// Build creates the dependency graph for a set of modules.
//
// Only project dependencies produce edges. A reference that matches no
// module, or several, is skipped and recorded in the returned diagnostics.
// When two modules share a name the first one wins.
func Build(modules []Module) (*Graph, *Diagnostics) {
	graph := NewGraph()
	diags := &Diagnostics{
		Unresolved:       []Unresolved{},
		DuplicateModules: []string{},
	}

	// First pass: create all nodes
	kept := make([]Module, 0, len(modules))
	for _, m := range modules {
		if !graph.AddNode(m.Name, m.Path) {
			diags.DuplicateModules = append(diags.DuplicateModules, m.Name)
			continue
		}
		kept = append(kept, m)
	}

	resolver := newResolver(kept)

	// Second pass: resolve project references into edges
	for _, m := range kept {
		for _, dep := range m.Facts.ProjectDependencies() {
			candidates := resolver.resolve(dep.ProjectPath)

			switch len(candidates) {
			case 1:
				// Both ends are known nodes
				_ = graph.AddDependency(m.Name, candidates[0])
			case 0:
				diags.Unresolved = append(diags.Unresolved, Unresolved{
					Module:        m.Name,
					Configuration: dep.Configuration,
					ProjectPath:   dep.ProjectPath,
					Reason:        ReasonNotFound,
				})
			default:
				diags.Unresolved = append(diags.Unresolved, Unresolved{
					Module:        m.Name,
					Configuration: dep.Configuration,
					ProjectPath:   dep.ProjectPath,
					Reason:        ReasonAmbiguous,
					Candidates:    candidates,
				})
			}
		}
	}

	return graph, diags
}

type candidate struct {
	name     string
	segments []string
}

type resolver struct {
	candidates []candidate
}

func newResolver(modules []Module) *resolver {
	r := &resolver{candidates: make([]candidate, 0, len(modules))}
	for _, m := range modules {
		r.candidates = append(r.candidates, candidate{
			name:     m.Name,
			segments: PathSegments(m.Path),
		})
	}
	return r
}

// resolve returns the names of every module whose path matches the token
func (r *resolver) resolve(token string) []string {
	want := ReferenceSegments(token)
	if len(want) == 0 {
		return nil
	}

	var matches []string
	for _, c := range r.candidates {
		if suffixMatch(c.segments, want) {
			matches = append(matches, c.name)
		}
	}
	return matches
}

// suffixMatch reports whether want equals the trailing segments of have.
// Segment counts must be equal.
func suffixMatch(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	offset := len(have) - len(want)
	for i, seg := range want {
		if have[offset+i] != seg {
			return false
		}
	}
	return true
}

// ReferenceSegments splits a project reference such as ":parent:child"
// into its non-empty segments.
func ReferenceSegments(token string) []string {
	return strings.FieldsFunc(token, func(r rune) bool {
		return r == ':' || r == '/'
	})
}

// PathSegments splits a module path into its non-empty segments
func PathSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}
