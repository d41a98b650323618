package buildfile

import "regexp"

var (
	// include 'a', 'b'   include(':a')
	groovyIncludePattern = regexp.MustCompile(`\binclude(?:\s*\(\s*|\s+)((?:["'][^"'\n]+["']\s*,\s*)*["'][^"'\n]+["'])`)
	// include(":a", ":b")
	kotlinIncludePattern = regexp.MustCompile(`\binclude\s*\(\s*((?:["'][^"'\n]+["']\s*,\s*)*["'][^"'\n]+["'])\s*\)`)

	quotedTokenPattern     = regexp.MustCompile(`["']([^"'\n]+)["']`)
	rootProjectNamePattern = regexp.MustCompile(`\brootProject\.name\s*=\s*["']([^"']+)["']`)
)

// ParseSettings returns every included project path token in order of
// appearance. Duplicates are preserved.
func ParseSettings(text string, d Dialect) []string {
	src := scrub(text)

	pattern := groovyIncludePattern
	if d == Kotlin {
		pattern = kotlinIncludePattern
	}

	includes := []string{}
	for _, m := range pattern.FindAllStringSubmatch(src.code, -1) {
		for _, tok := range quotedTokenPattern.FindAllStringSubmatch(m[1], -1) {
			includes = append(includes, tok[1])
		}
	}
	return includes
}

// ParseRootProjectName returns the value assigned to rootProject.name
func ParseRootProjectName(text string) (string, bool) {
	src := scrub(text)
	if m := rootProjectNamePattern.FindStringSubmatch(src.code); m != nil {
		return m[1], true
	}
	return "", false
}
