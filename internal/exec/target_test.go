package exec

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetArgs(t *testing.T) {
	tests := []struct {
		target string
		inv    Invocation
		want   []string
	}{
		{"build", Invocation{}, []string{"build"}},
		{"build", Invocation{Task: "assemble", Args: []string{"--info"}}, []string{"assemble", "--info"}},
		{"test", Invocation{}, []string{"test"}},
		{"test", Invocation{Args: []string{"--tests", "MainTest"}, Coverage: true}, []string{"test", "--tests", "MainTest", "jacocoTestReport"}},
		{"test", Invocation{Coverage: true, CoverageFormat: "xml"}, []string{"test", "jacocoTestReport", "-Pcoverage.format=xml"}},
		{"test", Invocation{CoverageFormat: "xml"}, []string{"test"}},
		{"gradle", Invocation{}, nil},
		{"gradle", Invocation{Args: []string{"dependencies", "--configuration", "api"}}, []string{"dependencies", "--configuration", "api"}},
	}

	for _, tt := range tests {
		target, ok := Lookup(tt.target)
		require.True(t, ok, tt.target)
		assert.Equal(t, tt.want, target.Args(tt.inv), "%s %+v", tt.target, tt.inv)
	}
}

func TestGradleTargetCopiesArgs(t *testing.T) {
	target, _ := Lookup("gradle")
	inv := Invocation{Args: []string{"tasks"}}
	args := target.Args(inv)
	args[0] = "changed"
	assert.Equal(t, "tasks", inv.Args[0])
}

func TestInvocationEnv(t *testing.T) {
	assert.Empty(t, Invocation{}.Env())

	inv := Invocation{JavaHome: "/opt/jdk17", GradleOpts: []string{"-Xmx2g", "-Dfile.encoding=UTF-8"}}
	assert.Equal(t, []string{
		"JAVA_HOME=/opt/jdk17",
		"GRADLE_OPTS=-Xmx2g -Dfile.encoding=UTF-8",
	}, inv.Env())
}

func TestBuiltinTargets(t *testing.T) {
	assert.Equal(t, []string{"build", "gradle", "test"}, Targets())

	desc := Describe()
	assert.Len(t, desc, 3)
	assert.NotEmpty(t, desc["test"])

	_, ok := Lookup("deploy")
	assert.False(t, ok)
}

func TestCommandLine(t *testing.T) {
	target, _ := Lookup("test")
	line := CommandLine(target, Invocation{Command: "./gradlew", Coverage: true})
	assert.Equal(t, "./gradlew test jacocoTestReport", line)
}

func TestRunTarget(t *testing.T) {
	var stdout, stderr bytes.Buffer
	executor := newMockExecutor(&stdout, &stderr)
	target, _ := Lookup("build")

	err := RunTarget(context.Background(), executor, target, Invocation{
		Module:     "core",
		Dir:        t.TempDir(),
		Command:    "gradle",
		Args:       []string{"--offline"},
		JavaHome:   "/opt/jdk21",
		GradleOpts: []string{"-Xmx1g"},
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "args: build --offline")
	assert.Contains(t, stdout.String(), "JAVA_HOME=/opt/jdk21")
	assert.Contains(t, stdout.String(), "GRADLE_OPTS=-Xmx1g")
}

func TestRunTargetFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	executor := newMockExecutor(&stdout, &stderr)
	target, _ := Lookup("gradle")

	err := RunTarget(context.Background(), executor, target, Invocation{
		Module:  "app",
		Command: "gradle",
		Args:    []string{"--fail"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradle in app")
	assert.Contains(t, stderr.String(), "BUILD FAILED")
}

type fakeTarget struct{ name string }

func (f fakeTarget) Name() string                 { return f.name }
func (f fakeTarget) Description() string          { return "fake " + f.name }
func (f fakeTarget) Args(inv Invocation) []string { return inv.Args }

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(fakeTarget{name: "lint"}))

		got, ok := r.Get("lint")
		require.True(t, ok)
		assert.Equal(t, "fake lint", got.Description())
	})

	t.Run("duplicate", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(fakeTarget{name: "lint"}))
		err := r.Register(fakeTarget{name: "lint"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("nil and empty name", func(t *testing.T) {
		r := NewRegistry()
		assert.ErrorContains(t, r.Register(nil), "nil target")
		assert.ErrorContains(t, r.Register(fakeTarget{}), "empty name")
	})

	t.Run("sorted list", func(t *testing.T) {
		r := NewRegistry()
		for _, name := range []string{"c", "a", "b"} {
			require.NoError(t, r.Register(fakeTarget{name: name}))
		}
		assert.Equal(t, []string{"a", "b", "c"}, r.List())
		assert.Equal(t, "fake b", r.Descriptions()["b"])
	})
}
