// Package output provides styled terminal output for heron commands.
//
// Messages are rendered with lipgloss and written to stdout, matching the
// rest of the Firebird Suite:
//
//   - Success: 🔥 green bold
//   - Warn: ⚠️ yellow
//   - Error: ❌ red bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true)

	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// The root command calls this when --verbose is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// Success prints a success message for completed operations.
//
//	output.Success("Build order computed for 12 modules")
func Success(msg string) {
	fmt.Println(successStyle.Render("🔥 " + msg))
}

// Warn prints a warning that does not stop the command, such as an
// unresolved project reference.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠️  " + msg))
}

// Error prints an error message for failures that need user attention.
func Error(msg string) {
	fmt.Println(errorStyle.Render("❌ " + msg))
}

// Info prints an informational message.
func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented step message in gray.
func Step(msg string) {
	fmt.Println(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
//
//	output.Verbose("Parsed 4 dependencies in core/build.gradle")
func Verbose(msg string) {
	if verboseMode {
		fmt.Println(stepStyle.Render("🔍 " + msg))
	}
}

// List prints a bold title followed by one indented line per item.
// Empty lists print the title and "(none)".
func List(title string, items []string) {
	fmt.Println(headerStyle.Render(title))
	if len(items) == 0 {
		fmt.Println(stepStyle.Render("   (none)"))
		return
	}
	for _, item := range items {
		fmt.Println("   " + item)
	}
}

// Numbered prints items as a numbered list, used for build orders.
func Numbered(title string, items []string) {
	fmt.Println(headerStyle.Render(title))
	for i, item := range items {
		fmt.Printf("%4d. %s\n", i+1, item)
	}
}
