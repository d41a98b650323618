// Package tasks infers heron targets from the task list Gradle reports.
//
// The input is the text printed by `gradle tasks --all`. Known Gradle tasks
// (build, test, assemble, jar, clean, check, bootJar, bootRun) map onto the
// build, test and gradle executors with their outputs and dependencies.
package tasks

import (
	"path"
	"sort"
	"strings"
)

// ProjectRoot is the placeholder replaced by a module path in outputs
const ProjectRoot = "{projectRoot}"

// WorkspaceRoot marks inputs that live at the workspace root
const WorkspaceRoot = "{workspaceRoot}"

// Target is a heron target inferred from a Gradle task
type Target struct {
	Name      string   `json:"name" yaml:"name"`
	Executor  string   `json:"executor" yaml:"executor"` // build, test or gradle
	Task      string   `json:"task,omitempty" yaml:"task,omitempty"`
	Args      []string `json:"args,omitempty" yaml:"args,omitempty"`
	Outputs   []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// mappings lists the Gradle tasks heron knows how to run
var mappings = map[string]Target{
	"build": {
		Executor: "build",
		Task:     "build",
		Outputs:  []string{ProjectRoot + "/build"},
	},
	"test": {
		Executor: "test",
		Task:     "test",
		Outputs:  []string{ProjectRoot + "/build/test-results", ProjectRoot + "/build/reports"},
	},
	"assemble": {
		Executor: "build",
		Task:     "assemble",
		Outputs:  []string{ProjectRoot + "/build/libs"},
	},
	"jar": {
		Executor: "build",
		Task:     "jar",
		Outputs:  []string{ProjectRoot + "/build/libs"},
	},
	"clean": {
		Executor: "gradle",
		Args:     []string{"clean"},
	},
	"check": {
		Executor:  "gradle",
		Args:      []string{"check"},
		Outputs:   []string{ProjectRoot + "/build/reports"},
		DependsOn: []string{"test"},
	},
	"bootJar": {
		Executor: "build",
		Task:     "bootJar",
		Outputs:  []string{ProjectRoot + "/build/libs"},
	},
	"bootRun": {
		Executor: "gradle",
		Args:     []string{"bootRun"},
	},
}

// Known returns the Gradle task names that map to targets, sorted
func Known() []string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTaskList extracts task names from `gradle tasks --all` output.
// A section starts with a title line underlined by dashes and ends at a
// blank line. Task lines look like "name - description" or just "name".
// Help tasks are left out, duplicates collapse to the first occurrence.
func ParseTaskList(output string) []string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")

	var tasks []string
	seen := make(map[string]bool)
	inSection := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isRule(trimmed) {
			// The title above the rule opens a section unless it is a
			// banner closed by another rule further down.
			inSection = i > 0 && strings.TrimSpace(lines[i-1]) != "" && !bannerTitle(lines, i)
			continue
		}
		if trimmed == "" {
			inSection = false
			continue
		}
		if !inSection || i+1 < len(lines) && isRule(strings.TrimSpace(lines[i+1])) {
			continue
		}

		name, _, _ := strings.Cut(trimmed, " - ")
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, " \t") || strings.HasPrefix(name, "help") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			tasks = append(tasks, name)
		}
	}

	return tasks
}

// isRule reports whether line is a run of dashes
func isRule(line string) bool {
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// bannerTitle reports whether the rule at i closes a title that is also
// opened by a rule, as in Gradle's "Tasks runnable from ..." banner.
func bannerTitle(lines []string, i int) bool {
	return i >= 2 && isRule(strings.TrimSpace(lines[i-2]))
}

// Infer maps the known tasks of a module onto targets. Outputs have
// ProjectRoot replaced by projectPath. Unknown tasks are ignored, and
// targets keep the order of tasks.
func Infer(tasks []string, projectPath string) []Target {
	var targets []Target
	for _, task := range tasks {
		mapping, ok := mappings[task]
		if !ok {
			continue
		}

		t := Target{
			Name:      task,
			Executor:  mapping.Executor,
			Task:      mapping.Task,
			Args:      append([]string(nil), mapping.Args...),
			DependsOn: append([]string(nil), mapping.DependsOn...),
		}
		for _, out := range mapping.Outputs {
			t.Outputs = append(t.Outputs, expand(out, projectPath))
		}
		targets = append(targets, t)
	}
	return targets
}

func expand(pattern, projectPath string) string {
	if projectPath == "" {
		projectPath = "."
	}
	return path.Clean(strings.ReplaceAll(pattern, ProjectRoot, projectPath))
}

// Outputs returns the usual build outputs of a module for caching
func Outputs(projectPath string) []string {
	return []string{
		path.Join(projectPath, "build"),
		path.Join(projectPath, "build", "libs"),
		path.Join(projectPath, "build", "classes"),
		path.Join(projectPath, "build", "resources"),
		path.Join(projectPath, "build", "generated"),
	}
}

// CacheInputs returns the files whose change invalidates a module's build
func CacheInputs(projectPath string) []string {
	return []string{
		path.Join(projectPath, "build.gradle"),
		path.Join(projectPath, "build.gradle.kts"),
		path.Join(projectPath, "settings.gradle"),
		path.Join(projectPath, "settings.gradle.kts"),
		path.Join(projectPath, "src") + "/**/*",
		path.Join(projectPath, "gradle.properties"),
		WorkspaceRoot + "/gradle.properties",
	}
}
