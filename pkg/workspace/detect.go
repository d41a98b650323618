package workspace

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// WrapperJar is the wrapper jar location relative to a project directory
var WrapperJar = filepath.Join("gradle", "wrapper", "gradle-wrapper.jar")

// FindBuildFile returns the build file in dir. build.gradle is preferred
// over build.gradle.kts.
func FindBuildFile(dir string) (string, buildfile.Dialect, bool) {
	for _, d := range []buildfile.Dialect{buildfile.Groovy, buildfile.Kotlin} {
		path := filepath.Join(dir, d.BuildFileName())
		if isFile(path) {
			return path, d, true
		}
	}
	return "", buildfile.Groovy, false
}

// FindSettingsFile returns settings.gradle or settings.gradle.kts in dir
func FindSettingsFile(dir string) (string, bool) {
	for _, d := range []buildfile.Dialect{buildfile.Groovy, buildfile.Kotlin} {
		path := filepath.Join(dir, d.SettingsFileName())
		if isFile(path) {
			return path, true
		}
	}
	return "", false
}

// IsGradleProject checks if a directory contains a build file
func IsGradleProject(dir string) bool {
	_, _, ok := FindBuildFile(dir)
	return ok
}

// DetectWrapper returns the wrapper script of a project directory. The
// wrapper counts only when gradle/wrapper/gradle-wrapper.jar is present.
// On Windows gradlew.bat is required, elsewhere gradlew.
func DetectWrapper(dir string) (string, bool) {
	if !isFile(filepath.Join(dir, WrapperJar)) {
		return "", false
	}

	script := "gradlew"
	if runtime.GOOS == "windows" {
		script = "gradlew.bat"
	}

	path := filepath.Join(dir, script)
	if !isFile(path) {
		return "", false
	}
	return path, true
}

// FindWrapper looks for a wrapper in dir and each parent up to root
func FindWrapper(dir, root string) (string, bool) {
	root = filepath.Clean(root)
	current := filepath.Clean(dir)
	for {
		if path, ok := DetectWrapper(current); ok {
			return path, true
		}
		if current == root {
			return "", false
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// GradleCommand returns the command used to run Gradle in dir: the
// wrapper when enabled and present, otherwise "gradle" from PATH.
func GradleCommand(dir string, useWrapper bool) string {
	if useWrapper {
		if wrapper, ok := DetectWrapper(dir); ok {
			return wrapper
		}
	}
	return "gradle"
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
