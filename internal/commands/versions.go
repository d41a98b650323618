package commands

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/spf13/cobra"
)

// VersionsCmd creates the 'versions' command
func VersionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Find external libraries declared at different versions",
		Long: `Compares the external dependencies of every module and reports
libraries that are declared at more than one version, newest first.

Example:
  heron versions
  heron versions --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.listFormat(format)
			if err != nil {
				return err
			}

			a, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}

			conflicts := a.VersionConflicts()
			if f != "text" {
				return writeStructured(cmd.OutOrStdout(), f, map[string]any{"conflicts": conflicts})
			}

			if len(conflicts) == 0 {
				output.Success("Every external library is declared at a single version")
				return nil
			}

			w := cmd.OutOrStdout()
			for _, c := range conflicts {
				fmt.Fprintf(w, "%s\n", c.Library)
				for _, use := range c.Versions {
					marker := " "
					if use.Version == c.Highest {
						marker = "*"
					}
					fmt.Fprintf(w, "  %s %-12s %s\n", marker, use.Version, strings.Join(use.Modules, ", "))
				}
			}
			output.Warn(fmt.Sprintf("%d %s with version drift", len(conflicts), plural(len(conflicts), "library", "libraries")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}
