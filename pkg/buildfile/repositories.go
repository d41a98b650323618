package buildfile

import (
	"regexp"
	"strings"
)

// Well-known repository shortcuts, in output order
var KnownRepositories = []string{
	"mavenCentral",
	"mavenLocal",
	"google",
	"gradlePluginPortal",
}

var repositoryURLPatterns = []*regexp.Regexp{
	// maven { url "u" }, maven { url = "u" }, maven { url = uri("u") }, maven { url("u") }
	regexp.MustCompile(`\bmaven\s*\{[^}]*?\burl\s*(?:[=:(]\s*)?(?:uri\s*\(\s*)?["']([^"']+)["']`),
	// maven("u"), maven(url = "u")
	regexp.MustCompile(`\bmaven\s*\(\s*(?:url\s*=\s*)?["']([^"']+)["']`),
}

func parseRepositories(body string) []string {
	repos := []string{}
	for _, name := range KnownRepositories {
		if strings.Contains(body, name) {
			repos = append(repos, name)
		}
	}
	for _, m := range matchAll(body, repositoryURLPatterns) {
		repos = append(repos, m.groups[0])
	}
	return dedupe(repos)
}
