package depgraph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSort(t *testing.T) {
	tests := []struct {
		name    string
		order   []string
		deps    map[string][]string
		want    []string
		wantErr bool
	}{
		{
			name:  "core api web",
			order: []string{"core", "api", "web"},
			deps: map[string][]string{
				"api": {"core"},
				"web": {"api", "core"},
			},
			want: []string{"core", "api", "web"},
		},
		{
			name:  "dependents declared first",
			order: []string{"web", "api", "core"},
			deps: map[string][]string{
				"api": {"core"},
				"web": {"api", "core"},
			},
			want: []string{"core", "api", "web"},
		},
		{
			name:  "independent modules keep insertion order",
			order: []string{"x", "y", "z"},
			want:  []string{"x", "y", "z"},
		},
		{
			name:  "chain",
			order: []string{"a", "b", "c"},
			deps: map[string][]string{
				"a": {"b"},
				"b": {"c"},
			},
			want: []string{"c", "b", "a"},
		},
		{
			name:  "three cycle",
			order: []string{"a", "b", "c"},
			deps: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"a"},
			},
			wantErr: true,
		},
		{
			name:    "self reference",
			order:   []string{"solo"},
			deps:    map[string][]string{"solo": {"solo"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.order, tt.deps)

			got, err := TopologicalSort(g)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrCycle))

				var cycleErr *CycleError
				require.True(t, errors.As(err, &cycleErr))
				assert.Contains(t, tt.order, cycleErr.Module)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopologicalSort_EdgesRespected(t *testing.T) {
	deps := map[string][]string{
		"app":     {"service", "ui"},
		"service": {"model", "storage"},
		"ui":      {"model"},
		"storage": {"model"},
	}
	g := graphOf(t, []string{"app", "ui", "service", "storage", "model", "docs"}, deps)

	order, err := TopologicalSort(g)
	require.NoError(t, err)
	require.Len(t, order, g.Len())

	for from, tos := range deps {
		for _, to := range tos {
			assert.Less(t, indexIn(order, to), indexIn(order, from), "%s must precede %s", to, from)
		}
	}
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := graphOf(t, []string{"core", "api", "web"}, map[string][]string{
			"api": {"core"},
			"web": {"api", "core"},
		})
		assert.Empty(t, DetectCycles(g))
		assert.False(t, HasCycle(g))
	})

	t.Run("three cycle", func(t *testing.T) {
		g := graphOf(t, []string{"a", "b", "c"}, map[string][]string{
			"a": {"b"},
			"b": {"c"},
			"c": {"a"},
		})

		cycles := DetectCycles(g)
		require.NotEmpty(t, cycles)
		assert.Equal(t, []string{"a", "b", "c"}, cycles[0])
		assert.True(t, HasCycle(g))
	})

	t.Run("cycle below an entry module", func(t *testing.T) {
		g := graphOf(t, []string{"app", "x", "y"}, map[string][]string{
			"app": {"x"},
			"x":   {"y"},
			"y":   {"x"},
		})

		assert.Equal(t, [][]string{{"x", "y"}}, DetectCycles(g))
	})

	t.Run("overlapping cycles", func(t *testing.T) {
		g := graphOf(t, []string{"a", "b", "c"}, map[string][]string{
			"a": {"b"},
			"b": {"a", "c"},
			"c": {"a"},
		})

		assert.Equal(t, [][]string{{"a", "b"}, {"a", "b", "c"}}, DetectCycles(g))
	})

	t.Run("self reference", func(t *testing.T) {
		g := graphOf(t, []string{"solo"}, map[string][]string{"solo": {"solo"}})

		assert.Equal(t, [][]string{{"solo"}}, DetectCycles(g))
	})

	t.Run("does not mutate the graph", func(t *testing.T) {
		g := graphOf(t, []string{"a", "b"}, map[string][]string{"a": {"b"}, "b": {"a"}})
		before := g.Snapshot()

		DetectCycles(g)

		assert.Equal(t, before, g.Snapshot())
	})
}

func TestTransitiveDependencies(t *testing.T) {
	deps := map[string][]string{
		"app":     {"service", "ui"},
		"service": {"model", "storage"},
		"ui":      {"model"},
		"storage": {"model"},
	}
	names := []string{"app", "ui", "service", "storage", "model"}
	g := graphOf(t, names, deps)

	assert.Equal(t, map[string]bool{
		"service": true,
		"ui":      true,
		"model":   true,
		"storage": true,
	}, TransitiveDependencies("app", g))
	assert.Empty(t, TransitiveDependencies("model", g))
	assert.Empty(t, TransitiveDependencies("unknown", g))

	// closure(m) == direct(m) ∪ closure(direct(m))
	for _, name := range names {
		union := map[string]bool{}
		for _, dep := range g.Dependencies(name) {
			union[dep] = true
			for d := range TransitiveDependencies(dep, g) {
				union[d] = true
			}
		}
		assert.Equal(t, union, TransitiveDependencies(name, g), name)
	}
}

func TestTransitiveDependencies_ExcludesSelfInCycle(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c"}, map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	got := TransitiveDependencies("a", g)

	assert.Equal(t, map[string]bool{"b": true, "c": true}, got)
	assert.False(t, got["a"])
}

func TestAffected(t *testing.T) {
	g := graphOf(t, []string{"model", "storage", "service", "ui", "app", "docs"}, map[string][]string{
		"storage": {"model"},
		"service": {"storage"},
		"ui":      {"model"},
		"app":     {"service", "ui"},
	})

	assert.Equal(t, []string{"storage", "service", "app"}, Affected(g, "storage"))
	assert.Equal(t, []string{"model", "storage", "service", "ui", "app"}, Affected(g, "model"))
	assert.Equal(t, []string{"ui", "app", "docs"}, Affected(g, "docs", "ui", "ghost"))
	assert.Empty(t, Affected(g))

	assert.Equal(t, map[string]bool{"app": true}, TransitiveDependents("ui", g))
}

func TestLevels(t *testing.T) {
	g := graphOf(t, []string{"app", "ui", "service", "storage", "model", "docs"}, map[string][]string{
		"app":     {"service", "ui"},
		"service": {"storage"},
		"ui":      {"model"},
		"storage": {"model"},
	})

	levels, err := Levels(g)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"model", "docs"},
		{"ui", "storage"},
		{"service"},
		{"app"},
	}, levels)

	empty, err := Levels(NewGraph())
	require.NoError(t, err)
	assert.Empty(t, empty)

	cyclic := graphOf(t, []string{"a", "b"}, map[string][]string{"a": {"b"}, "b": {"a"}})
	_, err = Levels(cyclic)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestSnapshot(t *testing.T) {
	g := graphOf(t, []string{"core", "api"}, map[string][]string{"api": {"core"}})

	view := g.Snapshot()

	assert.Equal(t, 1, view.EdgeCount)
	require.Len(t, view.Modules, 2)
	assert.Equal(t, ModuleView{
		Name:         "core",
		Path:         "core",
		Dependencies: []string{},
		Dependents:   []string{"api"},
	}, view.Modules[0])
	assert.Equal(t, []string{"core"}, view.Modules[1].Dependencies)
}

func TestWriteDOT(t *testing.T) {
	g := graphOf(t, []string{"core", "api", "web"}, map[string][]string{
		"api": {"core"},
		"web": {"api", "core"},
	})

	var buf bytes.Buffer
	err := WriteDOT(&buf, g, DOTOptions{Highlight: []string{"api"}, RankDir: "LR"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"api" -> "core"`)
	assert.Contains(t, out, `"web" -> "api"`)
	assert.Contains(t, out, `"web" -> "core"`)
	assert.Contains(t, out, "rankdir")
	assert.Contains(t, out, "filled")
}
