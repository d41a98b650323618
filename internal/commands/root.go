package commands

import (
	"github.com/simonhull/firebird-suite/heron"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbose  bool
	root     string
	config   string
	logLevel string
	strict   bool
}

var globals globalOptions

// RootCmd creates and returns the root command for the heron CLI
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heron",
		Short: "Dependency graphs for multi-module Gradle workspaces",
		Long: `Heron reads the build scripts of a Gradle workspace and derives the
dependency graph between its modules, without running Gradle.

It helps you:
• See which modules depend on which
• Build modules in a safe order
• Catch circular dependencies and version drift
• Run Gradle targets across the workspace

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       heron.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(globals.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.StringVarP(&globals.root, "root", "C", ".", "Workspace root directory")
	flags.StringVar(&globals.config, "config", "", "Path to heron.yml (default: <root>/heron.yml)")
	flags.StringVar(&globals.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&globals.strict, "strict", false, "Fail when a project reference cannot be resolved")

	return cmd
}

// NewRootCmd returns the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	root := RootCmd()
	root.AddCommand(
		GraphCmd(),
		OrderCmd(),
		CyclesCmd(),
		DepsCmd(),
		AffectedCmd(),
		ParseCmd(),
		VersionsCmd(),
		ReportCmd(),
		TasksCmd(),
		RunCmd(),
		NewCmd(),
		InitCmd(),
	)
	return root
}
