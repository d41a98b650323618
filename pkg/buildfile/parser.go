package buildfile

import (
	"regexp"
	"sort"
)

var (
	groovyPluginPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bid\s+["']([^"']+)["']`),
		regexp.MustCompile(`\bid\s*\(\s*["']([^"']+)["']\s*\)`),
		regexp.MustCompile(`\bapply\s+plugin\s*:\s*["']([^"']+)["']`),
	}
	kotlinPluginPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bid\s*\(\s*["']([^"']+)["']\s*\)`),
		regexp.MustCompile(`\bkotlin\s*\(\s*["']([^"']+)["']\s*\)`),
	}

	// <conf> "g:a:v"
	groovyExternalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+)\s+["']([^"':\s]+):([^"':\s]+):([^"':\s]+)["']`),
		regexp.MustCompile(`(\w+)\s*\(\s*["']([^"':\s]+):([^"':\s]+):([^"':\s]+)["']\s*\)`),
	}
	// <conf>("g:a:v")
	kotlinExternalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+)\s*\(\s*["']([^"':\s]+):([^"':\s]+):([^"':\s]+)["']\s*\)`),
	}

	groovyProjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+)\s+project\s*\(\s*(?:path\s*:\s*)?["']([^"']+)["']\s*\)`),
		regexp.MustCompile(`(\w+)\s*\(\s*project\s*\(\s*(?:path\s*:\s*)?["']([^"']+)["']\s*\)\s*\)`),
	}
	kotlinProjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+)\s*\(\s*project\s*\(\s*(?:path\s*=\s*)?["']([^"']+)["']\s*\)\s*\)`),
	}
)

// Parse extracts build facts from the text of a build file. It never
// fails: sections that cannot be located come back empty.
func Parse(text string, d Dialect) *BuildFacts {
	src := scrub(text)
	facts := NewBuildFacts()

	facts.Plugins = parsePlugins(src.code, d)
	if body, ok := blockBody(src, "dependencies", true); ok {
		facts.Dependencies = parseDependencies(body, d)
	}
	if body, ok := blockBody(src, "repositories", false); ok {
		facts.Repositories = parseRepositories(body)
	}
	facts.Properties = parseProperties(src.code)

	return facts
}

func parsePlugins(code string, d Dialect) []string {
	patterns := groovyPluginPatterns
	if d == Kotlin {
		patterns = kotlinPluginPatterns
	}

	plugins := []string{}
	for _, m := range matchAll(code, patterns) {
		plugins = append(plugins, m.groups[0])
	}
	return dedupe(plugins)
}

// parseDependencies runs the external pass then the project pass over the
// body of a dependencies block. External coordinates always precede
// project references in the result.
func parseDependencies(body string, d Dialect) []Dependency {
	externals, projects := groovyExternalPatterns, groovyProjectPatterns
	if d == Kotlin {
		externals, projects = kotlinExternalPatterns, kotlinProjectPatterns
	}

	deps := []Dependency{}
	for _, m := range matchAll(body, externals) {
		deps = append(deps, Dependency{
			Configuration: m.groups[0],
			Kind:          External,
			Group:         m.groups[1],
			Artifact:      m.groups[2],
			Version:       m.groups[3],
		})
	}
	for _, m := range matchAll(body, projects) {
		deps = append(deps, Dependency{
			Configuration: m.groups[0],
			Kind:          Project,
			ProjectPath:   m.groups[1],
		})
	}
	return deps
}

type match struct {
	pos    int
	groups []string
}

// matchAll collects the matches of every pattern and orders them by
// their position in the text.
func matchAll(text string, patterns []*regexp.Regexp) []match {
	var out []match
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			m := match{pos: loc[0]}
			for g := 2; g+1 < len(loc); g += 2 {
				if loc[g] < 0 {
					m.groups = append(m.groups, "")
					continue
				}
				m.groups = append(m.groups, text[loc[g]:loc[g+1]])
			}
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
