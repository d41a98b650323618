package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// writeFiles creates every file under root, making parent directories
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"settings.gradle":                "rootProject.name = 'shop'\ninclude ':core', ':api', ':web'\n",
		"build.gradle":                   "// root build, not a module\n",
		"core/build.gradle":              "plugins { id 'java-library' }\n",
		"api/build.gradle.kts":           "plugins { id(\"java\") }\n",
		"web/build.gradle":               "apply plugin: 'war'\n",
		"web/build.gradle.kts":           "// ignored, Groovy wins\n",
		"web/build/build.gradle":         "// build output, skipped\n",
		"node_modules/x/build.gradle":    "// skipped\n",
		".hidden/build.gradle":           "// skipped\n",
		"docs/README.md":                 "not a module\n",
		"tools/lint/settings.gradle.kts": "include(\":rules\")\n",
		"tools/lint/build.gradle.kts":    "\n",
	})

	snap, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "core", "lint", "web"}, snap.Names())
	assert.Equal(t, "shop", snap.RootProjectName)
	assert.Equal(t, []string{":core", ":api", ":web"}, snap.Includes)
	assert.Equal(t, buildfile.Groovy, snap.SettingsDialect)

	api, ok := snap.Module("api")
	require.True(t, ok)
	assert.Equal(t, buildfile.Kotlin, api.Dialect)
	assert.Equal(t, "api", api.Path)
	assert.Contains(t, api.BuildText, `id("java")`)

	web, _ := snap.Module("web")
	assert.Equal(t, buildfile.Groovy, web.Dialect)
	assert.Equal(t, filepath.Join(root, "web", "build.gradle"), web.BuildFile)

	lint, _ := snap.Module("lint")
	assert.Equal(t, "tools/lint", lint.Path)
	assert.Equal(t, filepath.Join(root, "tools", "lint", "settings.gradle.kts"), lint.SettingsFile)
	assert.Contains(t, lint.SettingsText, ":rules")
}

func TestDiscover_DisambiguatesNames(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/util/build.gradle": "",
		"b/util/build.gradle": "",
		"core/build.gradle":   "",
	})

	snap, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-util", "b-util", "core"}, snap.Names())
}

func TestDiscover_RenamedNamesStayUnique(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/util/build.gradle": "",
		"b/util/build.gradle": "",
		"a-util/build.gradle": "",
	})

	snap, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-util-2", "a-util", "b-util"}, snap.Names())

	kept, ok := snap.Module("a-util")
	require.True(t, ok)
	assert.Equal(t, "a-util", kept.Path)

	renamed, ok := snap.Module("a-util-2")
	require.True(t, ok)
	assert.Equal(t, "a/util", renamed.Path)
}

func TestDiscover_ExtraIgnore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"legacy/old/build.gradle": "",
		"core/build.gradle":       "",
	})

	snap, err := Discover(context.Background(), root, DiscoverOptions{
		Walk: WalkOptions{ExtraIgnore: []string{"legacy"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"core"}, snap.Names())
}

func TestDiscover_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"core/build.gradle": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, root, DiscoverOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDiscover_BadRoot(t *testing.T) {
	_, err := Discover(context.Background(), filepath.Join(t.TempDir(), "missing"), DiscoverOptions{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = Discover(context.Background(), file, DiscoverOptions{})
	assert.Error(t, err)
}

func TestCheckIncludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"settings.gradle.kts":      "include(\":core\", \":libs:json\", \":gone\", \":gone\")\n",
		"core/build.gradle.kts":    "",
		"libs/json/build.gradle":   "",
		"sandbox/build.gradle.kts": "",
	})

	snap, err := Discover(context.Background(), root, DiscoverOptions{})
	require.NoError(t, err)

	check := snap.CheckIncludes()
	assert.Equal(t, []string{"gone"}, check.Missing)
	assert.Equal(t, []string{"sandbox"}, check.Unlisted)
}

func TestCheckIncludes_NoSettings(t *testing.T) {
	snap := &Snapshot{Modules: []*Module{{Name: "a", Path: "a"}}}

	check := snap.CheckIncludes()
	assert.Empty(t, check.Missing)
	assert.Empty(t, check.Unlisted)
}

func TestIncludePath(t *testing.T) {
	assert.Equal(t, "libs/core", IncludePath(":libs:core"))
	assert.Equal(t, "core", IncludePath("core"))
	assert.Equal(t, "", IncludePath(":"))
}

func TestDetectWrapper(t *testing.T) {
	script := "gradlew"
	if runtime.GOOS == "windows" {
		script = "gradlew.bat"
	}

	t.Run("script and jar", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			script:                               "#!/bin/sh\n",
			"gradle/wrapper/gradle-wrapper.jar": "jar",
		})

		path, ok := DetectWrapper(dir)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(dir, script), path)
		assert.Equal(t, path, GradleCommand(dir, true))
		assert.Equal(t, "gradle", GradleCommand(dir, false))
	})

	t.Run("script without jar", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{script: "#!/bin/sh\n"})

		_, ok := DetectWrapper(dir)
		assert.False(t, ok)
		assert.Equal(t, "gradle", GradleCommand(dir, true))
	})

	t.Run("found in parent", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			script:                               "#!/bin/sh\n",
			"gradle/wrapper/gradle-wrapper.jar": "jar",
			"libs/core/build.gradle":            "",
		})

		path, ok := FindWrapper(filepath.Join(root, "libs", "core"), root)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(root, script), path)
	})

	t.Run("not found up to root", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"a/build.gradle": ""})

		_, ok := FindWrapper(filepath.Join(root, "a"), root)
		assert.False(t, ok)
	})
}

func TestIsGradleProject(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsGradleProject(dir))

	writeFiles(t, dir, map[string]string{"build.gradle.kts": ""})
	assert.True(t, IsGradleProject(dir))
}

func TestWalkDirs_SkipDir(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/inner/x.txt": "",
		"b/x.txt":       "",
	})

	var visited []string
	err := WalkDirs(root, WalkOptions{}, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))
		if rel == "a" {
			return filepath.SkipDir
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, visited)
}
