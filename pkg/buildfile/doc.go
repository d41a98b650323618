// Package buildfile extracts structured facts from Gradle build and
// settings files.
//
// # Overview
//
// The parser is a tolerant, grammar-lite text extractor. It understands
// two dialects of the same build language:
//   - Groovy (build.gradle, settings.gradle)
//   - Kotlin (build.gradle.kts, settings.gradle.kts)
//
// Each section of a build file is handled by an independent pattern pass:
//   - Plugins (id "x", id("x"), apply plugin: "x", kotlin("x"))
//   - The first top-level dependencies { } block
//   - The first repositories { } block
//   - Scalar properties (group, version, sourceCompatibility, targetCompatibility)
//
// Parsing never fails. A section the parser cannot make sense of simply
// comes back empty, and the other sections are still extracted. Variables
// are not evaluated and plugin DSLs are not executed.
//
// # Usage
//
// Parse a build file:
//
//	facts := buildfile.Parse(text, buildfile.DialectForFile("build.gradle.kts"))
//	for _, dep := range facts.ProjectDependencies() {
//	    fmt.Println(dep.Configuration, dep.ProjectPath)
//	}
//
// Parse a settings file:
//
//	includes := buildfile.ParseSettings(text, buildfile.Groovy)
//	// [":core", ":api", "shared:utils"]
package buildfile
