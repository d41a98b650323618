package buildfile

import (
	"regexp"
	"strings"
)

type propertyPatterns struct {
	quoted      *regexp.Regexp
	javaVersion *regexp.Regexp
	numeric     *regexp.Regexp
}

var propertyMatchers = func() map[string]propertyPatterns {
	m := make(map[string]propertyPatterns, len(PropertyNames))
	for _, name := range PropertyNames {
		q := regexp.QuoteMeta(name)
		m[name] = propertyPatterns{
			quoted:      regexp.MustCompile(`\b` + q + `\s*=\s*["']([^"']+)["']`),
			javaVersion: regexp.MustCompile(`\b` + q + `\s*=\s*JavaVersion\.VERSION_(\d+(?:_\d+)*)\b`),
			numeric:     regexp.MustCompile(`\b` + q + `\s*=\s*(\d+(?:\.\d+)*)\b`),
		}
	}
	return m
}()

// parseProperties extracts the known scalar properties. For each name the
// quoted form wins over JavaVersion constants, which win over bare numbers.
func parseProperties(code string) map[string]string {
	props := map[string]string{}
	for _, name := range PropertyNames {
		if v, ok := extractProperty(code, propertyMatchers[name]); ok {
			props[name] = v
		}
	}
	return props
}

func extractProperty(code string, p propertyPatterns) (string, bool) {
	if m := p.quoted.FindStringSubmatch(code); m != nil {
		return m[1], true
	}
	if m := p.javaVersion.FindStringSubmatch(code); m != nil {
		// VERSION_1_8 -> 1.8
		return strings.ReplaceAll(m[1], "_", "."), true
	}
	if m := p.numeric.FindStringSubmatch(code); m != nil {
		return m[1], true
	}
	return "", false
}
