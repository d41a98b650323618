package analyzer

import (
	"sort"

	"golang.org/x/mod/semver"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// VersionUse is one version of a library and the modules declaring it
type VersionUse struct {
	Version string   `json:"version" yaml:"version"`
	Modules []string `json:"modules" yaml:"modules"`
}

// VersionConflict is an external library declared with more than one version
type VersionConflict struct {
	Library  string       `json:"library" yaml:"library"` // group:artifact
	Versions []VersionUse `json:"versions" yaml:"versions"`
	Highest  string       `json:"highest" yaml:"highest"`
}

// VersionConflicts finds external libraries that different modules (or
// the same module) declare at different versions. Libraries are sorted by
// name and versions newest first.
func (a *Analysis) VersionConflicts() []VersionConflict {
	// library -> version -> modules
	uses := make(map[string]map[string][]string)

	for _, name := range a.Graph.Names() {
		facts := a.Facts[name]
		for _, dep := range facts.ExternalDependencies() {
			lib := dep.Group + ":" + dep.Artifact
			if uses[lib] == nil {
				uses[lib] = make(map[string][]string)
			}
			if !contains(uses[lib][dep.Version], name) {
				uses[lib][dep.Version] = append(uses[lib][dep.Version], name)
			}
		}
	}

	conflicts := []VersionConflict{}
	for lib, byVersion := range uses {
		if len(byVersion) < 2 {
			continue
		}

		versions := make([]string, 0, len(byVersion))
		for v := range byVersion {
			versions = append(versions, v)
		}
		SortVersions(versions)

		c := VersionConflict{Library: lib, Highest: versions[0]}
		for _, v := range versions {
			c.Versions = append(c.Versions, VersionUse{Version: v, Modules: byVersion[v]})
		}
		conflicts = append(conflicts, c)
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Library < conflicts[j].Library })
	return conflicts
}

// SortVersions orders versions newest first. Versions that are not
// semantic versions sort after the ones that are, in reverse lexical order.
func SortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, vj := canonical(versions[i]), canonical(versions[j])
		switch {
		case vi != "" && vj != "":
			if c := semver.Compare(vi, vj); c != 0 {
				return c > 0
			}
			return versions[i] > versions[j]
		case vi != "":
			return true
		case vj != "":
			return false
		default:
			return versions[i] > versions[j]
		}
	})
}

// canonical maps a Maven style version onto semver, or "" when it does not fit
func canonical(v string) string {
	sv := "v" + v
	if !semver.IsValid(sv) {
		return ""
	}
	return sv
}

// contains checks if a string slice contains a value
func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// ExternalLibraries returns the distinct group:artifact pairs in use
func ExternalLibraries(facts map[string]*buildfile.BuildFacts) []string {
	seen := make(map[string]bool)
	for _, f := range facts {
		for _, dep := range f.ExternalDependencies() {
			seen[dep.Group+":"+dep.Artifact] = true
		}
	}
	libs := make([]string, 0, len(seen))
	for lib := range seen {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}
