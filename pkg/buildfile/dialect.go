package buildfile

import (
	"fmt"
	"strings"
)

// Dialect identifies the concrete syntax of a build file
type Dialect int

const (
	// Groovy is the bareword/space style DSL (build.gradle)
	Groovy Dialect = iota
	// Kotlin is the parenthesized-call style DSL (build.gradle.kts)
	Kotlin
)

// String returns the dialect name used in config files and output
func (d Dialect) String() string {
	switch d {
	case Groovy:
		return "groovy"
	case Kotlin:
		return "kotlin"
	default:
		return "unknown"
	}
}

// BuildFileName returns the conventional build file name for the dialect
func (d Dialect) BuildFileName() string {
	if d == Kotlin {
		return "build.gradle.kts"
	}
	return "build.gradle"
}

// SettingsFileName returns the conventional settings file name for the dialect
func (d Dialect) SettingsFileName() string {
	if d == Kotlin {
		return "settings.gradle.kts"
	}
	return "settings.gradle"
}

// DialectForFile picks the dialect from a file name. Files ending in .kts
// are Kotlin, everything else is Groovy.
func DialectForFile(path string) Dialect {
	if strings.HasSuffix(path, ".kts") {
		return Kotlin
	}
	return Groovy
}

// ParseDialect converts a user-supplied name into a Dialect.
// Accepts "groovy", "gradle", "kotlin", "kts" and "gradle-kotlin-dsl".
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "groovy", "gradle", "":
		return Groovy, nil
	case "kotlin", "kts", "gradle-kotlin-dsl":
		return Kotlin, nil
	default:
		return Groovy, fmt.Errorf("unknown build dialect: %s (supported: groovy, kotlin)", name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
